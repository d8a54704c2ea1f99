package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"guesswho/meta"
)

var ErrInvalidConfig = errors.New("invalid config")

// Strategy names accepted in agent configs.
const (
	StrategyPoor   = "poor"
	StrategyRandom = "random"
	StrategyGreedy = "greedy"
	StrategyCrazy  = "crazy"
)

// Tree search modes.
const (
	ModeWorstCase = "worst_case"
	ModeExpected  = "expected"
)

// AgentConfig describes one computer player.
type AgentConfig struct {
	ID            int    `yaml:"id"`
	Strategy      string `yaml:"strategy"`
	MaxDepth      int    `yaml:"max_depth,omitempty"`
	MaxNodes      int    `yaml:"max_nodes,omitempty"`
	MaxCandidates int    `yaml:"max_candidates,omitempty"`
	Goroutines    int    `yaml:"goroutines,omitempty"`
	Mode          string `yaml:"mode,omitempty"`
}

// MatchUp pairs two agents by ID. CatalogSize overrides the experiment's pool size.
type MatchUp struct {
	Agent1      int `yaml:"agent1"`
	Agent2      int `yaml:"agent2"`
	CatalogSize int `yaml:"catalog_size,omitempty"`
}

// Experiment is the top-level config for a batch of games.
type Experiment struct {
	Name        string        `yaml:"name"`
	Questions   string        `yaml:"questions"`
	People      string        `yaml:"people"` // Optional, checked to describe every identity in Questions
	Games       int           `yaml:"games"`
	CatalogSize int           `yaml:"catalog_size"`
	Seed        int64         `yaml:"seed"`
	OutputDir   string        `yaml:"output_dir"` // Empty to skip writing records
	Agents      []AgentConfig `yaml:"agents"`
	MatchUps    []MatchUp     `yaml:"match_ups"`
}

// Default pits the greedy agent against the poor baseline, and the tree search
// against the poor baseline on a smaller pool.
func Default() Experiment {
	return Experiment{
		Name:        "default",
		Questions:   "data/questions.csv",
		People:      "data/people.csv",
		Games:       meta.GAMES,
		CatalogSize: meta.CATALOG_SIZE,
		Agents: []AgentConfig{
			{ID: 1, Strategy: StrategyPoor},
			{ID: 2, Strategy: StrategyRandom},
			{ID: 3, Strategy: StrategyGreedy},
			{ID: 4, Strategy: StrategyCrazy, MaxDepth: 3, MaxNodes: 200000, MaxCandidates: 16, Goroutines: 4, Mode: ModeWorstCase},
		},
		MatchUps: []MatchUp{
			{Agent1: 3, Agent2: 1},
			{Agent1: 3, Agent2: 2},
			{Agent1: 1, Agent2: 4, CatalogSize: meta.SEARCH_CATALOG_SIZE},
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Experiment, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Experiment{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Experiment{}, err
	}
	return cfg, nil
}

// Agent finds an agent config by ID.
func (c Experiment) Agent(id int) (AgentConfig, bool) {
	for _, a := range c.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentConfig{}, false
}

func (c Experiment) Validate() error {
	if c.Questions == "" {
		return fmt.Errorf("%w: questions path is required", ErrInvalidConfig)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: games must be positive, got %d", ErrInvalidConfig, c.Games)
	}
	if c.CatalogSize < 1 {
		return fmt.Errorf("%w: catalog_size must be positive, got %d", ErrInvalidConfig, c.CatalogSize)
	}
	seen := map[int]bool{}
	for _, a := range c.Agents {
		if seen[a.ID] {
			return fmt.Errorf("%w: duplicate agent id %d", ErrInvalidConfig, a.ID)
		}
		seen[a.ID] = true
		if err := a.Validate(); err != nil {
			return err
		}
	}
	if len(c.MatchUps) == 0 {
		return fmt.Errorf("%w: at least one match up is required", ErrInvalidConfig)
	}
	for _, m := range c.MatchUps {
		if !seen[m.Agent1] || !seen[m.Agent2] {
			return fmt.Errorf("%w: match up %d vs %d names an unknown agent", ErrInvalidConfig, m.Agent1, m.Agent2)
		}
		if m.CatalogSize < 0 {
			return fmt.Errorf("%w: negative catalog_size in match up %d vs %d", ErrInvalidConfig, m.Agent1, m.Agent2)
		}
	}
	return nil
}

func (a AgentConfig) Validate() error {
	switch a.Strategy {
	case StrategyPoor, StrategyRandom, StrategyGreedy:
	case StrategyCrazy:
		switch a.Mode {
		case "", ModeWorstCase, ModeExpected:
		default:
			return fmt.Errorf("%w: agent %d has unknown mode %q", ErrInvalidConfig, a.ID, a.Mode)
		}
		if a.MaxDepth < 0 || a.MaxNodes < 0 || a.MaxCandidates < 0 || a.Goroutines < 0 {
			return fmt.Errorf("%w: agent %d has a negative search bound", ErrInvalidConfig, a.ID)
		}
	default:
		return fmt.Errorf("%w: agent %d has unknown strategy %q", ErrInvalidConfig, a.ID, a.Strategy)
	}
	return nil
}
