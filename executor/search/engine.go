// Package search picks moves for the automated player with a fixed-depth
// minimax search, optionally with alpha-beta pruning.
package search

import (
	"sync/atomic"

	"github.com/brensch/othello/game"
)

// DefaultDepth is the number of plies searched below each candidate move.
const DefaultDepth = 3

const (
	// MaxScore and MinScore bound every material score, so they work as
	// initial node values and as the root alpha-beta window.
	MaxScore = game.Cells + 1
	MinScore = -MaxScore
)

// Config holds search configuration.
type Config struct {
	Depth   int
	Pruning bool
	// Workers > 1 scores root candidates concurrently.
	Workers int
}

func DefaultConfig() Config {
	return Config{Depth: DefaultDepth, Pruning: true, Workers: 1}
}

// Stats counts search work. It is safe for concurrent use.
type Stats struct {
	Nodes   atomic.Int64
	Leaves  atomic.Int64
	Cutoffs atomic.Int64
}

type StatsSnapshot struct {
	Nodes   int64 `json:"nodes"`
	Leaves  int64 `json:"leaves"`
	Cutoffs int64 `json:"cutoffs"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Nodes:   s.Nodes.Load(),
		Leaves:  s.Leaves.Load(),
		Cutoffs: s.Cutoffs.Load(),
	}
}

func (s StatsSnapshot) Sub(o StatsSnapshot) StatsSnapshot {
	return StatsSnapshot{
		Nodes:   s.Nodes - o.Nodes,
		Leaves:  s.Leaves - o.Leaves,
		Cutoffs: s.Cutoffs - o.Cutoffs,
	}
}

func (s *Stats) node() {
	if s != nil {
		s.Nodes.Add(1)
	}
}

func (s *Stats) leaf() {
	if s != nil {
		s.Leaves.Add(1)
	}
}

func (s *Stats) cutoff() {
	if s != nil {
		s.Cutoffs.Add(1)
	}
}

// Scored is a root candidate with its backed-up value.
type Scored struct {
	Move  game.Point `json:"move"`
	Score int        `json:"score"`
}

// Result is the outcome of a move selection. Found is false when the side to
// move has no legal placement and must pass.
type Result struct {
	Move       game.Point
	Score      int
	Found      bool
	Candidates []Scored
	Stats      StatsSnapshot
}

// Engine holds the search context. Stats accumulate across calls.
type Engine struct {
	Config Config
	Stats  Stats
}

func NewEngine(cfg Config) *Engine {
	if cfg.Depth < 0 {
		cfg.Depth = 0
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Engine{Config: cfg}
}
