package catalog

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// Identity is a selectable character: a name and a non-empty feature set.
type Identity struct {
	Name     string
	Features map[string]struct{}
}

// NewIdentity collapses duplicate features into a set.
func NewIdentity(name string, features ...string) (Identity, error) {
	set := make(map[string]struct{}, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	if len(set) == 0 {
		return Identity{}, &MalformedRecordError{Fields: len(features) + 1, Reason: fmt.Sprintf("identity %q has no features", name)}
	}
	return Identity{Name: name, Features: set}, nil
}

// HasFeature reports whether the identity carries the feature.
func (id Identity) HasFeature(feature string) bool {
	_, ok := id.Features[feature]
	return ok
}

// SortedFeatures returns the features in lexical order, for display.
func (id Identity) SortedFeatures() []string {
	features := make([]string, 0, len(id.Features))
	for f := range id.Features {
		features = append(features, f)
	}
	sort.Strings(features)
	return features
}

// Entry is one identity's row of question/answer pairs, in column order.
type Entry struct {
	Name      string
	Questions []string
	Answers   []string
	Line      int // Source line, 0 when built in memory
}

// Catalog maps identity names to their answers. It is never mutated after construction,
// so it can be shared by both players, the session and every tree-search branch.
type Catalog struct {
	names     []string                     // Load order
	questions []string                     // Question universe, from the first entry
	answers   map[string]map[string]string // name -> question -> answer
}

// New builds a catalog from in-memory entries.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		names:   make([]string, 0, len(entries)),
		answers: make(map[string]map[string]string, len(entries)),
	}
	for _, e := range entries {
		if len(e.Questions) != len(e.Answers) {
			return nil, &MalformedRecordError{Line: e.Line, Fields: 1 + len(e.Questions) + len(e.Answers), Reason: "questions and answers are not paired"}
		}
		if _, ok := c.answers[e.Name]; ok {
			return nil, &MalformedRecordError{Line: e.Line, Fields: 1 + 2*len(e.Questions), Reason: fmt.Sprintf("duplicate identity %q", e.Name)}
		}
		if c.questions != nil && !slices.Equal(e.Questions, c.questions) {
			return nil, &MalformedRecordError{Line: e.Line, Fields: 1 + 2*len(e.Questions), Reason: fmt.Sprintf("questions of %q differ from the first record", e.Name)}
		}
		row := make(map[string]string, len(e.Questions))
		for i, q := range e.Questions {
			row[q] = e.Answers[i]
		}
		if c.questions == nil {
			c.questions = slices.Clone(e.Questions)
		}
		c.names = append(c.names, e.Name)
		c.answers[e.Name] = row
	}
	return c, nil
}

// Describe matches every entry to its identity record, in load order.
func (c *Catalog) Describe(ids []Identity) ([]Identity, error) {
	byName := make(map[string]Identity, len(ids))
	for _, id := range ids {
		byName[id.Name] = id
	}
	described := make([]Identity, 0, len(c.names))
	for _, name := range c.names {
		id, ok := byName[name]
		if !ok {
			return nil, &UnknownIdentityError{Name: name}
		}
		described = append(described, id)
	}
	return described, nil
}

// Len returns the number of identities.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns the identity names in load order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Questions returns the question universe. Every caller gets its own copy.
func (c *Catalog) Questions() []string {
	return slices.Clone(c.questions)
}

// Has reports whether name is one of the identities.
func (c *Catalog) Has(name string) bool {
	_, ok := c.answers[name]
	return ok
}

// Answer looks up the answer an identity gives to a question.
func (c *Catalog) Answer(name, question string) (string, error) {
	row, ok := c.answers[name]
	if !ok {
		return "", &UnknownQuestionError{Identity: name, Question: question}
	}
	answer, ok := row[question]
	if !ok {
		return "", &UnknownQuestionError{Identity: name, Question: question}
	}
	return answer, nil
}

// Sample selects k distinct identities uniformly at random without replacement.
func (c *Catalog) Sample(k int, rng *rand.Rand) (*Catalog, error) {
	if k > len(c.names) {
		return nil, &InsufficientCandidatesError{Requested: k, Available: len(c.names)}
	}
	if k <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", k)
	}

	perm := rng.Perm(len(c.names))[:k]
	sort.Ints(perm) // keep load order among the chosen
	sampled := &Catalog{
		names:     make([]string, 0, k),
		questions: c.questions,
		answers:   make(map[string]map[string]string, k),
	}
	for _, i := range perm {
		name := c.names[i]
		sampled.names = append(sampled.names, name)
		sampled.answers[name] = c.answers[name] // rows are shared read-only
	}
	return sampled, nil
}
