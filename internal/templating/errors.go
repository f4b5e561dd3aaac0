package templating

import "fmt"

// RenderError is returned when a template cannot be parsed or executed,
// e.g. because it references a variable that does not exist.
type RenderError struct {
	Name     string
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Name, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NoMatchError is returned by Apply when the rendered pattern matches
// nothing in the file.
type NoMatchError struct {
	Path     string
	Pattern  string
	Rendered string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no match for pattern %q in %s", e.Rendered, e.Path)
}
