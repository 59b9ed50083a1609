package pipeline

import (
	"regexp"
	"strings"
)

// tabWidth is the number of spaces a tab expands to.
const tabWidth = 4

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

var tabReplacer = strings.NewReplacer("\t", strings.Repeat(" ", tabWidth))

// InputNormalizer defines the contract for canonicalizing parser input.
type InputNormalizer interface {
	Normalize(content string) string
}

// BlueprintNormalizer folds line endings and expands tabs, which is what the
// blueprint parser expects before computing source offsets.
type BlueprintNormalizer struct{}

// Normalize applies NormalizeInput.
func (BlueprintNormalizer) Normalize(content string) string {
	return NormalizeInput(content)
}

// NormalizeInput converts \r\n and \r to \n and replaces each tab with four
// spaces. Running it on its own output is a no-op.
func NormalizeInput(content string) string {
	return ExpandTabs(NormalizeLineEndings(content))
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// ExpandTabs replaces every tab with four spaces.
func ExpandTabs(content string) string {
	return tabReplacer.Replace(content)
}
