package blueprint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// tabWidth is the column width of a tab when measuring indentation of
// unfiltered input.
const tabWidth = 4

// assetIndent is the indentation, relative to its list item, that makes a
// block a literal body rather than a description.
const assetIndent = 8

const methods = `GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS|TRACE|CONNECT|LINK|UNLINK`

// Precompiled regex patterns for performance.
var (
	metaPattern     = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)[ \t]*:(?:[ \t]+(.*))?$`)
	headingPattern  = regexp.MustCompile(`^#{1,6}[ \t]+(.*?)[ \t]*#*[ \t]*$`)
	groupPattern    = regexp.MustCompile(`^Group[ \t]+(.+)$`)
	endpointPattern = regexp.MustCompile(`^(` + methods + `)[ \t]+(\S+)$`)
	actionPattern   = regexp.MustCompile(`^(.*?)[ \t]*\[(` + methods + `)(?:[ \t]+([^\]]+?))?[ \t]*\]$`)
	resourcePattern = regexp.MustCompile(`^(.*?)[ \t]*\[[ \t]*([/{][^\]]*?)[ \t]*\]$`)
	uriPattern      = regexp.MustCompile(`^/\S*$`)
	sectionPattern  = regexp.MustCompile(`^[+*-][ \t]+(Request|Response|Parameters|Model|Headers|Body|Schema|Attributes)\b[ \t]*(.*)$`)
	nestedPattern   = regexp.MustCompile(`^[+*-][ \t]+(Headers|Body|Schema|Attributes)\b`)
	listItemPattern = regexp.MustCompile(`^[+*-][ \t]+(.*?)[ \t]*$`)
	payloadPattern  = regexp.MustCompile(`^(.*?)[ \t]*(?:\(([^)]*)\))?$`)
	statusPattern   = regexp.MustCompile(`^\d{3}$`)
	defaultPattern  = regexp.MustCompile("^Default:[ \\t]*`?([^`]*)`?$")
	paramPattern    = regexp.MustCompile("^([^\\s=:(`]+)" +
		"(?:[ \\t]*=[ \\t]*`([^`]*)`)?" +
		"(?:[ \\t]*:[ \\t]*(`[^`]*`|[^\\s(]+))?" +
		"[ \\t]*(?:\\(([^)]*)\\))?" +
		"[ \\t]*(?:(?:\\.\\.\\.|-)[ \\t]*(.*))?$")
)

// line is one source line with its byte offset.
type line struct {
	text    string // Without the line terminator
	trimmed string // Without leading whitespace
	start   int
	indent  int // Columns of leading whitespace
	blank   bool
}

func (l line) location() Location {
	return Location{Index: l.start, Length: len(l.text)}
}

// dedent removes up to n columns of leading whitespace.
func (l line) dedent(n int) string {
	col, i := 0, 0
	for i < len(l.text) && col < n {
		switch l.text[i] {
		case ' ':
			col++
		case '\t':
			col += tabWidth
		default:
			return l.text[i:]
		}
		i++
	}
	return l.text[i:]
}

func splitLines(src string) []line {
	var lines []line
	for start := 0; start <= len(src); {
		end := strings.IndexByte(src[start:], '\n')
		next := len(src) + 1
		if end >= 0 {
			end += start
			next = end + 1
		} else {
			end = len(src)
		}
		lines = append(lines, newLine(strings.TrimSuffix(src[start:end], "\r"), start))
		start = next
	}
	return lines
}

func newLine(s string, start int) line {
	indent := 0
	for _, c := range s {
		if c == ' ' {
			indent++
		} else if c == '\t' {
			indent += tabWidth
		} else {
			break
		}
	}
	trimmed := strings.TrimLeft(s, " \t")
	return line{
		text:    s,
		trimmed: trimmed,
		start:   start,
		indent:  indent,
		blank:   strings.TrimSpace(trimmed) == "",
	}
}

// parser holds the state of one Parse call.
type parser struct {
	lines []line
	pos   int

	api      *API
	group    *ResourceGroup
	resource *Resource
	action   *Action
	actions  []*Action
	named    bool

	desc    *string  // Description receiving pending lines
	pending []string // Description lines not yet flushed
	inFence bool

	warnings []Warning
}

// Parse parses an API Blueprint document. The returned error, when not nil,
// is an *Error.
func Parse(source string) (*Result, error) {
	p := &parser{lines: splitLines(source), api: &API{}}
	p.desc = &p.api.Description

	if err := p.parseMetadata(); err != nil {
		return nil, err
	}
	for p.pos < len(p.lines) {
		p.step()
	}
	p.flush()
	p.checkResponses()

	return &Result{API: p.api, Warnings: p.warnings}, nil
}

func (p *parser) parseMetadata() error {
	i := 0
	for i < len(p.lines) && p.lines[i].blank {
		i++
	}

	var meta []Metadata
	for ; i < len(p.lines); i++ {
		ln := p.lines[i]
		if ln.blank || ln.indent > 0 {
			break
		}
		m := metaPattern.FindStringSubmatch(ln.text)
		if m == nil {
			break
		}
		name, value := m[1], strings.TrimSpace(m[2])
		if strings.EqualFold(name, "FORMAT") && !strings.HasPrefix(strings.ToUpper(value), "1A") {
			return &Error{
				Code:     CodeUnsupportedFormat,
				Message:  fmt.Sprintf("unsupported blueprint format %q, expected 1A", value),
				Location: []Location{ln.location()},
			}
		}
		meta = append(meta, Metadata{Name: name, Value: value})
	}

	if len(meta) > 0 {
		p.api.Metadata = meta
		p.pos = i
	}
	return nil
}

func (p *parser) step() {
	ln := p.lines[p.pos]

	if isFence(ln.trimmed) {
		p.inFence = !p.inFence
		p.describe(ln)
		p.pos++
		return
	}
	if p.inFence {
		p.describe(ln)
		p.pos++
		return
	}

	if ln.indent == 0 {
		if m := headingPattern.FindStringSubmatch(ln.text); m != nil {
			p.heading(ln, m[1])
			p.pos++
			return
		}
	}

	if ln.indent < 4 {
		if m := sectionPattern.FindStringSubmatch(ln.trimmed); m != nil {
			p.pos++
			block := p.block(ln.indent)
			p.section(ln, m[1], strings.TrimSpace(m[2]), block)
			return
		}
	}

	p.describe(ln)
	p.pos++
}

// block consumes the lines nested under a list item at markerIndent.
func (p *parser) block(markerIndent int) []line {
	start := p.pos
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if !ln.blank && ln.indent <= markerIndent {
			break
		}
		p.pos++
	}
	return p.lines[start:p.pos]
}

func (p *parser) heading(ln line, title string) {
	if m := groupPattern.FindStringSubmatch(title); m != nil {
		p.flush()
		g := &ResourceGroup{Name: strings.TrimSpace(m[1])}
		p.api.ResourceGroups = append(p.api.ResourceGroups, g)
		p.group, p.resource, p.action = g, nil, nil
		p.desc = &g.Description
		p.named = true
		return
	}

	if title == "Data Structures" {
		p.flush()
		p.group, p.resource, p.action = nil, nil, nil
		p.desc = new(string)
		p.named = true
		return
	}

	if m := endpointPattern.FindStringSubmatch(title); m != nil {
		p.addResource("", m[2])
		p.addAction("", m[1], m[2], ln)
		return
	}

	if m := actionPattern.FindStringSubmatch(title); m != nil {
		if p.resource == nil {
			p.warn(CodeMisplaced, fmt.Sprintf("action %q outside of a resource", title), ln)
			p.addResource("", strings.TrimSpace(m[3]))
		}
		p.addAction(strings.TrimSpace(m[1]), m[2], strings.TrimSpace(m[3]), ln)
		return
	}

	if m := resourcePattern.FindStringSubmatch(title); m != nil {
		p.addResource(strings.TrimSpace(m[1]), m[2])
		return
	}

	if uriPattern.MatchString(title) {
		p.addResource("", title)
		return
	}

	if !p.named {
		p.flush()
		p.api.Name = title
		p.desc = &p.api.Description
		p.named = true
		return
	}

	p.describe(ln)
}

func (p *parser) addResource(name, uri string) {
	p.flush()
	if p.group == nil {
		p.group = &ResourceGroup{}
		p.api.ResourceGroups = append(p.api.ResourceGroups, p.group)
	}
	r := &Resource{Name: name, URITemplate: uri}
	p.group.Resources = append(p.group.Resources, r)
	p.resource, p.action = r, nil
	p.desc = &r.Description
	p.named = true
}

func (p *parser) addAction(name, method, uri string, ln line) {
	p.flush()
	if uri == "" {
		uri = p.resource.URITemplate
	}
	for _, existing := range p.resource.Actions {
		if existing.Method == method && existing.URITemplate == uri {
			p.warn(CodeDuplicate, fmt.Sprintf("action %s %s is already defined", method, uri), ln)
			break
		}
	}

	a := &Action{Name: name, Method: method, URITemplate: uri, loc: ln.location()}
	p.resource.Actions = append(p.resource.Actions, a)
	p.actions = append(p.actions, a)
	p.action = a
	p.desc = &a.Description
}

func (p *parser) section(ln line, kind, rest string, block []line) {
	p.flush()

	switch kind {
	case "Request", "Response":
		if p.action == nil {
			p.warn(CodeMisplaced, fmt.Sprintf("%s outside of an action", strings.ToLower(kind)), ln)
			return
		}
		pl := p.payload(kind, rest, ln, block)
		if kind == "Request" {
			p.action.Requests = append(p.action.Requests, pl)
		} else {
			p.action.Responses = append(p.action.Responses, pl)
		}

	case "Model":
		if p.resource == nil {
			p.warn(CodeMisplaced, "model outside of a resource", ln)
			return
		}
		p.resource.Model = p.payload(kind, rest, ln, block)

	case "Parameters":
		params := p.parameters(block)
		switch {
		case p.action != nil:
			p.action.Parameters = append(p.action.Parameters, params...)
		case p.resource != nil:
			p.resource.Parameters = append(p.resource.Parameters, params...)
		default:
			p.warn(CodeMisplaced, "parameters outside of a resource", ln)
		}

	case "Attributes":
		// Data structure descriptions are not rendered.

	default:
		p.warn(CodeMisplaced, fmt.Sprintf("%s outside of a payload", strings.ToLower(kind)), ln)
	}
}

func (p *parser) payload(kind, rest string, ln line, block []line) *Payload {
	m := payloadPattern.FindStringSubmatch(rest)
	label, media := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])

	pl := &Payload{MediaType: media}
	switch kind {
	case "Response":
		if statusPattern.MatchString(label) {
			pl.StatusCode, _ = strconv.Atoi(label)
		} else {
			p.warn(CodeMissingStatus, "response without a status code, assuming 200", ln)
			pl.StatusCode = 200
		}
	default:
		pl.Name = label
	}
	if media != "" {
		pl.Headers = append(pl.Headers, Header{Name: "Content-Type", Value: media})
	}

	fillPayload(pl, ln.indent, block)
	return pl
}

// fillPayload reads the description, headers, body and schema of a payload
// from the lines nested under it.
func fillPayload(pl *Payload, markerIndent int, block []line) {
	base := minIndent(block)
	if base < 0 {
		return
	}

	if !hasNestedSections(block, base) {
		pl.Description, pl.Body = splitAsset(block, markerIndent+assetIndent)
		return
	}

	var desc, content []line
	kind := ""
	emit := func() {
		switch kind {
		case "Headers":
			pl.Headers = append(pl.Headers, parseHeaders(content)...)
		case "Body":
			pl.Body = asset(content)
		case "Schema":
			pl.Schema = asset(content)
		}
	}

	for _, l := range block {
		if !l.blank && l.indent == base {
			if m := nestedPattern.FindStringSubmatch(l.trimmed); m != nil {
				emit()
				kind, content = m[1], nil
				continue
			}
		}
		if kind == "" {
			desc = append(desc, l)
		} else {
			content = append(content, l)
		}
	}
	emit()

	pl.Description = text(desc)
}

func hasNestedSections(block []line, base int) bool {
	for _, l := range block {
		if !l.blank && l.indent == base && nestedPattern.MatchString(l.trimmed) {
			return true
		}
	}
	return false
}

// splitAsset splits a payload block into the description lines before the
// first line indented by at least threshold, and the body from there on.
func splitAsset(block []line, threshold int) (string, string) {
	for i, l := range block {
		if !l.blank && l.indent >= threshold {
			return text(block[:i]), asset(block[i:])
		}
	}
	return text(block), ""
}

func parseHeaders(content []line) []Header {
	var headers []Header
	for _, l := range content {
		name, value, ok := strings.Cut(l.trimmed, ":")
		if l.blank || !ok {
			continue
		}
		headers = append(headers, Header{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return headers
}

func (p *parser) parameters(block []line) []Parameter {
	base := minIndent(block)
	var params []Parameter
	cur := -1
	valuesIndent := -1

	for _, l := range block {
		if l.blank {
			continue
		}
		item, isItem := listItem(l)

		switch {
		case isItem && l.indent == base:
			param, ok := parseParameter(item)
			if !ok {
				p.warn(CodeBadParameter, fmt.Sprintf("cannot read parameter %q", item), l)
				cur = -1
				continue
			}
			params = append(params, param)
			cur, valuesIndent = len(params)-1, -1

		case cur < 0:

		case isItem && (item == "Values" || item == "Members"):
			valuesIndent = l.indent

		case isItem && valuesIndent >= 0 && l.indent > valuesIndent:
			params[cur].Values = append(params[cur].Values, strings.Trim(item, "`"))

		case isItem && defaultPattern.MatchString(item):
			params[cur].Default = defaultPattern.FindStringSubmatch(item)[1]
			valuesIndent = -1

		default:
			valuesIndent = -1
			if params[cur].Description != "" {
				params[cur].Description += " "
			}
			params[cur].Description += strings.TrimSpace(l.trimmed)
		}
	}
	return params
}

// parseParameter reads a parameter definition in either of its forms:
//
//	id = `1` (required, number, `42`) ... Description
//	id: `42` (number, required) - Description
func parseParameter(item string) (Parameter, bool) {
	m := paramPattern.FindStringSubmatch(item)
	if m == nil {
		return Parameter{}, false
	}

	param := Parameter{
		Name:        m[1],
		Default:     m[2],
		Example:     strings.Trim(m[3], "`"),
		Description: strings.TrimSpace(m[5]),
	}
	for _, attr := range strings.Split(m[4], ",") {
		attr = strings.TrimSpace(attr)
		switch {
		case attr == "":
		case strings.EqualFold(attr, "required"):
			param.Required = true
		case strings.EqualFold(attr, "optional"):
			param.Required = false
		case strings.HasPrefix(attr, "`"):
			param.Example = strings.Trim(attr, "`")
		default:
			param.Type = attr
		}
	}
	return param, true
}

func (p *parser) checkResponses() {
	for _, a := range p.actions {
		if len(a.Responses) == 0 {
			p.warnings = append(p.warnings, Warning{
				Code:     CodeNoResponse,
				Message:  fmt.Sprintf("action %s %s has no response", a.Method, a.URITemplate),
				Location: []Location{a.loc},
			})
		}
	}
}

func (p *parser) describe(ln line) {
	p.pending = append(p.pending, ln.text)
}

// flush appends the pending description lines to the current element.
func (p *parser) flush() {
	s := strings.Join(trimBlank(p.pending), "\n")
	p.pending = nil
	if s == "" {
		return
	}
	if *p.desc != "" {
		*p.desc += "\n\n"
	}
	*p.desc += s
}

func (p *parser) warn(code int, msg string, ln line) {
	p.warnings = append(p.warnings, Warning{Code: code, Message: msg, Location: []Location{ln.location()}})
}

func listItem(l line) (string, bool) {
	m := listItemPattern.FindStringSubmatch(l.trimmed)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func isFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// minIndent returns the smallest indentation of the non-blank lines, or -1.
func minIndent(lines []line) int {
	m := -1
	for _, l := range lines {
		if !l.blank && (m < 0 || l.indent < m) {
			m = l.indent
		}
	}
	return m
}

// text joins lines dedented by their common indentation, without leading
// or trailing blank lines.
func text(lines []line) string {
	n := minIndent(lines)
	if n < 0 {
		return ""
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.dedent(n)
	}
	return strings.Join(trimBlank(out), "\n")
}

// asset is text with a trailing newline, the form bodies and schemas take.
func asset(lines []line) string {
	s := text(lines)
	if s == "" {
		return ""
	}
	return s + "\n"
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
