// Package session owns a live game: the board, the turn order and the move
// history. The presentation layer holds a *Session and drives it; the search
// only ever sees snapshots of the board.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brensch/othello/executor/search"
	"github.com/brensch/othello/executor/sequences"
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/rules"
)

var ErrGameOver = errors.New("game is over")

// Actor identifies who made a turn.
type Actor int

const (
	Human Actor = iota
	AI
	Auto
)

func (a Actor) String() string {
	switch a {
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return "auto"
	}
}

// Turn is one entry of the history. A pass keeps the passing color in
// Move.Color and has no coordinate.
type Turn struct {
	Move  game.Move
	Pass  bool
	Actor Actor
	// Score is the material score after the turn.
	Score int
}

func (t Turn) String() string {
	if t.Pass {
		return fmt.Sprintf("%c(pass)", t.Move.Color.Letter())
	}
	return t.Move.String()
}

type Session struct {
	ID      uuid.UUID
	Board   *game.Board
	History []Turn

	cfg   search.Config
	enum  sequences.Enumerator
	stats search.StatsSnapshot
	log   *zap.SugaredLogger
}

// New starts a game. A nil logger discards output.
func New(cfg search.Config, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Session{
		cfg:  cfg,
		enum: sequences.Enumerator{Workers: cfg.Workers},
		log:  log,
	}
	s.Reset()
	return s
}

// Reset throws the current game away and starts a new one.
func (s *Session) Reset() {
	s.ID = uuid.New()
	s.Board = game.NewGame()
	s.History = s.History[:0]
	s.stats = search.StatsSnapshot{}
	s.log.Infow("new game", "session", s.ID)
}

// Snapshot returns a copy of the live board.
func (s *Session) Snapshot() *game.Board {
	return s.Board.Clone()
}

// Legal refreshes the markers for the side to move and returns them.
func (s *Session) Legal() []game.Point {
	return s.Board.ComputeLegalMoves()
}

// Over applies the end-of-game rules: nobody can move, the disc inventory is
// used up, or the board is full.
func (s *Session) Over() bool {
	return s.Board.PiecesLeft <= 0 || s.Board.Empties() == 0 || rules.IsTerminal(s.Board)
}

func (s *Session) Score() int { return rules.MaterialScore(s.Board) }

func (s *Session) Winner() game.Color { return rules.Winner(s.Board) }

func (s *Session) Outcome() string { return rules.Outcome(s.Board) }

// SearchStats is the search work done for this game so far.
func (s *Session) SearchStats() search.StatsSnapshot { return s.stats }

// Play places a disc for the side to move at (row, col). Illegal placements
// return game.ErrPreconditionFailed and leave the game untouched.
func (s *Session) Play(row, col int) error {
	return s.play(row, col, Human)
}

// PlayAI lets the engine choose and play for the side to move. When the side
// has no legal placement the turn is passed and Result.Found is false.
func (s *Session) PlayAI(ctx context.Context, pruning bool) (search.Result, error) {
	cfg := s.cfg
	cfg.Pruning = pruning
	return s.PlayEngine(ctx, cfg)
}

// PlayEngine is PlayAI with explicit engine settings. Self-play uses it to
// give each color its own depth.
func (s *Session) PlayEngine(ctx context.Context, cfg search.Config) (search.Result, error) {
	if s.Over() {
		return search.Result{}, ErrGameOver
	}

	res, err := search.NewEngine(cfg).Choose(ctx, s.Board)
	if err != nil {
		return search.Result{}, fmt.Errorf("choose move: %w", err)
	}
	if err := s.Commit(res); err != nil {
		return search.Result{}, err
	}
	return res, nil
}

// Config is the engine configuration the session was created with.
func (s *Session) Config() search.Config { return s.cfg }

// Commit plays a result the engine produced for the current position. It lets
// callers run the search on a Snapshot away from the session. A result that
// passes while the side to move has a placement is rejected.
func (s *Session) Commit(res search.Result) error {
	if s.Over() {
		return ErrGameOver
	}
	s.stats.Nodes += res.Stats.Nodes
	s.stats.Leaves += res.Stats.Leaves
	s.stats.Cutoffs += res.Stats.Cutoffs

	s.log.Debugw("engine choice",
		"session", s.ID,
		"side", s.Board.Side.String(),
		"found", res.Found,
		"move", res.Move.String(),
		"score", res.Score,
		"nodes", res.Stats.Nodes,
		"cutoffs", res.Stats.Cutoffs,
	)

	if !res.Found {
		if s.Board.HasLegalMove(s.Board.Side) {
			return fmt.Errorf("%w: %s cannot pass with a legal move", game.ErrPreconditionFailed, s.Board.Side)
		}
		s.pass(AI)
		s.settle()
		return nil
	}
	return s.play(res.Move.Row, res.Move.Col, AI)
}

// Sequences enumerates every line from the live position.
func (s *Session) Sequences(ctx context.Context, depth int) ([]sequences.Sequence, error) {
	return s.enum.Run(ctx, s.Board, depth)
}

func (s *Session) play(row, col int, actor Actor) error {
	if s.Over() {
		return ErrGameOver
	}

	side := s.Board.Side
	if err := s.Board.ApplyMove(row, col, side); err != nil {
		return err
	}
	s.Board.SwitchSide()

	mv := game.Move{Color: side, Row: row, Col: col}
	s.History = append(s.History, Turn{Move: mv, Actor: actor, Score: s.Score()})
	s.log.Debugw("move", "session", s.ID, "move", mv.String(), "actor", actor.String(), "score", s.Score())

	s.settle()
	return nil
}

func (s *Session) pass(actor Actor) {
	side := s.Board.Side
	s.Board.SwitchSide()
	s.History = append(s.History, Turn{
		Move:  game.Move{Color: side, Row: -1, Col: -1},
		Pass:  true,
		Actor: actor,
		Score: s.Score(),
	})
	s.log.Debugw("pass", "session", s.ID, "side", side.String())
}

// settle hands the turn back when the new side to move is blocked but the
// game goes on, then refreshes the markers.
func (s *Session) settle() {
	if s.Over() {
		s.Board.ComputeLegalMoves()
		s.log.Infow("game over", "session", s.ID, "outcome", s.Outcome(), "score", s.Score())
		return
	}
	if !s.Board.HasLegalMove(s.Board.Side) {
		s.pass(Auto)
	}
	s.Board.ComputeLegalMoves()
}
