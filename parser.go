package bp2html

import (
	"errors"
	"fmt"

	"github.com/alnah/go-bp2html/internal/blueprint"
)

// Parser turns assembled text into a document tree and its warnings.
type Parser interface {
	Parse(source string) (*ParseResult, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(source string) (*ParseResult, error)

// Parse calls f(source).
func (f ParserFunc) Parse(source string) (*ParseResult, error) {
	return f(source)
}

// ParseResult is the output of a successful parse. Tree is exposed to
// templates as the "api" local.
type ParseResult struct {
	Tree     any
	Warnings []Warning
}

// ParseError reports a parser failure along with the text the parser was
// given, so that Locations can be resolved to lines. errors.Is(err, ErrParse)
// holds for every ParseError.
type ParseError struct {
	Message    string
	SourceText string
	Locations  []Location
	Code       int
	Err        error // Error returned by the parser, if any
}

func (e *ParseError) Error() string {
	if line := e.Line(); line > 0 {
		return fmt.Sprintf("%v: line %d: %s", ErrParse, line, e.Message)
	}
	return fmt.Sprintf("%v: %s", ErrParse, e.Message)
}

// Unwrap returns ErrParse and the parser's own error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// Line returns the 1-based line of the first location, or 0 when the error
// has no location.
func (e *ParseError) Line() int {
	if len(e.Locations) == 0 {
		return 0
	}
	line, _ := LineColumn(e.SourceText, e.Locations[0].Index)
	return line
}

// BlueprintParser parses API Blueprint documents. The tree it produces is a
// *blueprint.API.
type BlueprintParser struct{}

// Parse implements Parser.
func (BlueprintParser) Parse(source string) (*ParseResult, error) {
	res, err := blueprint.Parse(source)
	if err != nil {
		return nil, err
	}

	warnings := make([]Warning, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = Warning{
			Code:     w.Code,
			Message:  w.Message,
			Location: fromBlueprintLocations(w.Location),
		}
	}
	return &ParseResult{Tree: res.API, Warnings: warnings}, nil
}

// Compile-time interface checks.
var (
	_ Parser = BlueprintParser{}
	_ Parser = ParserFunc(nil)
)

// parse runs p on text. Every failure, panics included, is returned as a
// *ParseError carrying text.
func parse(p Parser, text string) (res *ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ParseError{Message: fmt.Sprintf("parser panic: %v", r), SourceText: text}
		}
	}()

	res, err = p.Parse(text)
	if err != nil {
		return nil, newParseError(err, text)
	}
	if res == nil {
		res = &ParseResult{}
	}
	return res, nil
}

func newParseError(err error, text string) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		out := *pe
		out.SourceText = text
		return &out
	}

	out := &ParseError{Message: err.Error(), SourceText: text, Err: err}
	var be *blueprint.Error
	if errors.As(err, &be) {
		out.Message = be.Message
		out.Code = be.Code
		out.Locations = fromBlueprintLocations(be.Location)
	}
	return out
}

func fromBlueprintLocations(locs []blueprint.Location) []Location {
	if len(locs) == 0 {
		return nil
	}
	out := make([]Location, len(locs))
	for i, l := range locs {
		out[i] = Location(l)
	}
	return out
}
