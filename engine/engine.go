package engine

import "guesswho/experiments/metrics"

// Runner plays a game until it is decided.
type Runner interface {
	// Run plays the session till there's a winner or a tie
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

// Searcher is implemented by strategies that report statistics about their last decision.
type Searcher interface {
	LastSearch() metrics.SearchMetric
}
