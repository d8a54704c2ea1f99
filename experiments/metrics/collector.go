package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration   time.Duration
	MaxDepth   int
	MaxNodes   int
	Nodes      int
	Goroutines int
	IsFallback bool // Budget was exceeded and the greedy choice was played
}

type MoveMetric struct {
	Step       int
	Player     int // Player index
	Question   string
	Answer     string
	Candidates int // Asker's surviving candidates after the answer
	SearchMetric
}

type GameMetric struct {
	ID             string
	StartingPlayer int    // Player index
	Winner         string // Player name or "tie"
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(goroutines, maxDepth, maxNodes int)
	AddNodes(n int)
	SetFallback(value bool)
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	maxDepth   int
	maxNodes   int
	startTime  time.Time
	nodes      atomic.Int64
	isFallback atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, maxDepth, maxNodes int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.maxDepth = maxDepth
	m.maxNodes = maxNodes
	m.nodes.Store(0)
	m.isFallback.Store(false)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) SetFallback(value bool) {
	m.isFallback.Store(value)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:   time.Since(m.startTime),
		MaxDepth:   m.maxDepth,
		MaxNodes:   m.maxNodes,
		Nodes:      int(m.nodes.Load()),
		Goroutines: m.goroutines,
		IsFallback: m.isFallback.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, maxDepth, maxNodes int) {}
func (m *dummyCollector) AddNodes(n int)                           {}
func (m *dummyCollector) SetFallback(value bool)                   {}
func (m *dummyCollector) Complete() SearchMetric                   { return SearchMetric{} }
