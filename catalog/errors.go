package catalog

import "fmt"

// MalformedRecordError reports a source row with the wrong shape.
type MalformedRecordError struct {
	Line   int // 1-based line in the source, 0 when built in memory
	Fields int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record on line %d (%d fields): %s", e.Line, e.Fields, e.Reason)
	}
	return fmt.Sprintf("malformed record (%d fields): %s", e.Fields, e.Reason)
}

// InsufficientCandidatesError is returned when a sample asks for more identities than exist.
type InsufficientCandidatesError struct {
	Requested int
	Available int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("cannot sample %d candidates from a pool of %d", e.Requested, e.Available)
}

// UnknownQuestionError is returned when an identity has no answer for a question.
type UnknownQuestionError struct {
	Identity string
	Question string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("identity %q has no answer for question %q", e.Identity, e.Question)
}

// UnknownIdentityError is returned when a catalog entry has no identity record.
type UnknownIdentityError struct {
	Name string
}

func (e *UnknownIdentityError) Error() string {
	return fmt.Sprintf("identity %q has no feature record", e.Name)
}
