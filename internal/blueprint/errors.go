package blueprint

import "fmt"

// Warning codes.
const (
	CodeMissingStatus = 2 // Response without a status code
	CodeNoResponse    = 3 // Action without any response
	CodeMisplaced     = 4 // Section outside of the element it belongs to
	CodeDuplicate     = 5 // Same method declared twice on a URI
	CodeBadParameter  = 6 // Parameter line that cannot be read
)

// CodeUnsupportedFormat is the code of the Error returned for a FORMAT
// value the parser does not understand.
const CodeUnsupportedFormat = 1

// Error is a fatal parse failure.
type Error struct {
	Code     int
	Message  string
	Location []Location
}

func (e *Error) Error() string {
	if len(e.Location) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (at offset %d)", e.Message, e.Location[0].Index)
}
