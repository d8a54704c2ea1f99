package searcher

import "errors"

// Default bounds for the tree search
const (
	DefaultMaxDepth   = 3
	DefaultMaxNodes   = 250000
	DefaultGoroutines = 1
)

// ErrBudgetExceeded stops a search that explored more nodes than allowed.
var ErrBudgetExceeded = errors.New("search budget exceeded")

// Mode selects how answer branches are combined into a question's score.
type Mode int

const (
	WorstCase Mode = iota // Largest surviving count over the possible answers
	Expected              // Surviving count weighted by the share of candidates giving each answer
)

func (m Mode) String() string {
	switch m {
	case WorstCase:
		return "worst_case"
	case Expected:
		return "expected"
	default:
		return "unknown"
	}
}
