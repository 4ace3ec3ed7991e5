package compiler

// Error reports a compilation failure tied to a specific stage and,
// where applicable, the offending rule. Modeled directly on the
// teacher's *CompileError{Pattern, Err}/Unwrap() shape in meta/compile.go.
type Error struct {
	Stage    string
	Detail   string
	RuleCode string
	Err      error
}

func (e *Error) Error() string {
	if e.RuleCode != "" {
		return "compiler: " + e.Stage + ": " + e.Detail + " (rule " + e.RuleCode + ")"
	}
	return "compiler: " + e.Stage + ": " + e.Detail
}

func (e *Error) Unwrap() error { return e.Err }
