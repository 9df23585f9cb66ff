package commands

import "fmt"

// ArgumentError reports a structurally invalid positional argument.
type ArgumentError struct {
	Arg   string
	Value string
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Arg, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Arg, e.Value, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }
