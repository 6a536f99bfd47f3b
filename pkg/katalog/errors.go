package katalog

import "fmt"

// InvalidFormatError reports a position number that does not match the
// six-digit-plus-optional-letter grammar.
type InvalidFormatError struct {
	Input string
}

func (e InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid position number format: %q", e.Input)
}

// InvalidTargetTypeError reports a zoom request whose target level cannot be
// reached from the root's level (e.g. asking a Grundtext root for a ULG).
type InvalidTargetTypeError struct {
	Root   EntityType
	Target EntityType
}

func (e InvalidTargetTypeError) Error() string {
	return fmt.Sprintf("target type %s cannot be reached from %s root", e.Target, e.Root)
}

// AmbiguousScopeError reports an unscoped zoom request whose target value
// occurs under more than one ancestor branch.
type AmbiguousScopeError struct {
	Target     EntityType
	Value      string
	Candidates int
}

func (e AmbiguousScopeError) Error() string {
	return fmt.Sprintf("%s %s matches %d branches; ulg/grundtext scope required", e.Target, e.Value, e.Candidates)
}

// StorageUnavailableError wraps a failure of the storage backend. It aborts
// an in-progress reconstruction; partial results are never returned.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e StorageUnavailableError) Unwrap() error { return e.Err }
