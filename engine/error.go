package engine

// Error reports an InvalidEvent failure (spec §7): the evaluator fails
// fast, before any predicate work, on a null/blank eventId. Modeled on the
// teacher's discriminant-plus-detail error shape (*compiler.Error,
// *rx.CompileError).
type Error struct {
	Kind   string
	Detail string
}

func (e *Error) Error() string { return "engine: " + e.Kind + ": " + e.Detail }

// errInvalidEvent builds the InvalidEvent error for a null/blank eventId.
func errInvalidEvent(detail string) *Error {
	return &Error{Kind: "InvalidEvent", Detail: detail}
}
