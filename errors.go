package bp2html

import (
	"errors"

	"github.com/alnah/go-bp2html/internal/assets"
	"github.com/alnah/go-bp2html/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrParse              = errors.New("parse failed")
	ErrReadInput          = errors.New("failed to read input")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidTemplateDir = errors.New("invalid template directory")

	// Template errors.
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrTemplateRender   = pipeline.ErrTemplateRender
	ErrHTMLConversion   = pipeline.ErrHTMLConversion

	// Include errors. Every include failure wraps ErrInclude along with the
	// underlying cause, such as fs.ErrNotExist or ErrCircularInclude.
	ErrInclude         = errors.New("include failed")
	ErrCircularInclude = pipeline.ErrCircularInclude

	// PDF export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)
