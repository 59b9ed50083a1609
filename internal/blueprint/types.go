package blueprint

import "strings"

// API is the root of a parsed blueprint.
type API struct {
	Name           string
	Description    string
	Metadata       []Metadata
	ResourceGroups []*ResourceGroup
}

// Metadata is one "Key: value" line from the top of the document.
type Metadata struct {
	Name  string
	Value string
}

// ResourceGroup groups related resources. Resources declared before any
// group heading belong to a group with an empty name.
type ResourceGroup struct {
	Name        string
	Description string
	Resources   []*Resource
}

// Resource is an addressable entity of the API.
type Resource struct {
	Name        string
	Description string
	URITemplate string
	Model       *Payload
	Parameters  []Parameter
	Actions     []*Action
}

// Action is an HTTP method applied to a resource.
type Action struct {
	Name        string
	Description string
	Method      string
	URITemplate string // Resource URI unless the action overrides it
	Parameters  []Parameter
	Requests    []*Payload
	Responses   []*Payload
	loc         Location
}

// Payload is a request, response or model body.
type Payload struct {
	Name        string // Request name, empty for responses
	StatusCode  int    // Responses only
	MediaType   string
	Description string
	Headers     []Header
	Body        string
	Schema      string
}

// Header is an HTTP header of a payload.
type Header struct {
	Name  string
	Value string
}

// Parameter describes a URI template variable.
type Parameter struct {
	Name        string
	Description string
	Type        string
	Required    bool
	Default     string
	Example     string
	Values      []string
}

// Location is a byte range of the parsed source.
type Location struct {
	Index  int
	Length int
}

// Warning is a non-fatal problem found while parsing.
type Warning struct {
	Code     int
	Message  string
	Location []Location
}

// Result is the output of a successful parse.
type Result struct {
	API      *API
	Warnings []Warning
}

// Meta returns the value of the metadata entry called name, ignoring case.
func (a *API) Meta(name string) string {
	for _, m := range a.Metadata {
		if strings.EqualFold(m.Name, name) {
			return m.Value
		}
	}
	return ""
}

// Host returns the HOST metadata value without a trailing slash.
func (a *API) Host() string {
	return strings.TrimSuffix(a.Meta("HOST"), "/")
}

// Resources returns the resources of every group, in document order.
func (a *API) Resources() []*Resource {
	var all []*Resource
	for _, g := range a.ResourceGroups {
		all = append(all, g.Resources...)
	}
	return all
}

// Title returns the resource name, or its URI template when unnamed.
func (r *Resource) Title() string {
	if r.Name != "" {
		return r.Name
	}
	return r.URITemplate
}

// Title returns the action name, or its method and URI when unnamed.
func (a *Action) Title() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Method + " " + a.URITemplate
}

// Header returns the value of the header called name, ignoring case.
func (p *Payload) Header(name string) string {
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
