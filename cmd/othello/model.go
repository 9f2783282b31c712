package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/brensch/othello/executor/search"
	"github.com/brensch/othello/executor/sequences"
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/session"
)

type viewMode int

const (
	modeBoard viewMode = iota
	modeSequences
)

const recentTurns = 8

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().PaddingLeft(2)
	blackStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	whiteStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// aiDoneMsg carries an engine result computed on a snapshot.
type aiDoneMsg struct {
	res     search.Result
	pruning bool
	err     error
}

type sequencesMsg struct {
	seqs  []sequences.Sequence
	depth int
	err   error
}

type model struct {
	ctx  context.Context
	sess *session.Session
	log  *zap.SugaredLogger

	seqDepth int
	cursor   game.Point
	mode     viewMode
	busy     string
	status   string
	err      error

	seqs   []sequences.Sequence
	offset int
	height int
}

func newModel(ctx context.Context, sess *session.Session, seqDepth int, log *zap.SugaredLogger) model {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return model{
		ctx:      ctx,
		sess:     sess,
		log:      log,
		seqDepth: seqDepth,
		cursor:   game.Point{Row: 2, Col: 3},
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case aiDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.err = msg.err
			m.log.Warnw("engine failed", "session", m.sess.ID, zap.Error(msg.err))
			return m, nil
		}
		if err := m.sess.Commit(msg.res); err != nil {
			m.err = err
			m.log.Warnw("engine result rejected", "session", m.sess.ID, zap.Error(err))
			return m, nil
		}
		m.status = describeAI(msg.res, msg.pruning)
		return m, nil
	case sequencesMsg:
		m.busy = ""
		if msg.err != nil {
			m.err = msg.err
			m.log.Warnw("enumeration failed", "session", m.sess.ID, zap.Error(msg.err))
			return m, nil
		}
		m.log.Infow("sequences", "session", m.sess.ID, "depth", msg.depth, "lines", len(msg.seqs))
		m.seqs = msg.seqs
		m.offset = 0
		m.mode = modeSequences
		m.status = fmt.Sprintf("%d sequences at depth %d", len(msg.seqs), msg.depth)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.mode == modeSequences {
			return m.updateSequences(msg), nil
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m model) updateBoard(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.cursor.Row = max(m.cursor.Row-1, 0)
		return m, nil
	case "down", "j":
		m.cursor.Row = min(m.cursor.Row+1, game.Size-1)
		return m, nil
	case "left", "h":
		m.cursor.Col = max(m.cursor.Col-1, 0)
		return m, nil
	case "right", "l":
		m.cursor.Col = min(m.cursor.Col+1, game.Size-1)
		return m, nil
	}

	// Everything below touches the game; wait for the running job.
	if m.busy != "" {
		return m, nil
	}
	m.err = nil

	switch msg.String() {
	case "enter", " ":
		if err := m.sess.Play(m.cursor.Row, m.cursor.Col); err != nil {
			m.err = err
			return m, nil
		}
		m.status = "played " + m.sess.History[len(m.sess.History)-1].String()
	case "a":
		return m.startAI(false)
	case "p":
		return m.startAI(true)
	case "s":
		m.busy = "enumerating sequences"
		return m, enumerateCmd(m.ctx, m.sess.Snapshot(), m.seqDepth, m.sess.Config().Workers)
	case "n":
		m.sess.Reset()
		m.seqs = nil
		m.status = "new game"
	}
	return m, nil
}

func (m model) startAI(pruning bool) (model, tea.Cmd) {
	if m.sess.Over() {
		m.err = session.ErrGameOver
		return m, nil
	}
	cfg := m.sess.Config()
	cfg.Pruning = pruning
	m.busy = "thinking"
	return m, chooseCmd(m.ctx, m.sess.Snapshot(), cfg)
}

func (m model) updateSequences(msg tea.KeyMsg) model {
	page := m.pageSize()
	last := max(len(m.seqs)-page, 0)
	switch msg.String() {
	case "esc", "s":
		m.mode = modeBoard
	case "up", "k":
		m.offset = max(m.offset-1, 0)
	case "down", "j":
		m.offset = min(m.offset+1, last)
	case "pgup", "b":
		m.offset = max(m.offset-page, 0)
	case "pgdown", "f", " ":
		m.offset = min(m.offset+page, last)
	case "home", "g":
		m.offset = 0
	case "end", "G":
		m.offset = last
	}
	return m
}

func (m model) pageSize() int {
	return max(m.height-4, 1)
}

func chooseCmd(ctx context.Context, snap *game.Board, cfg search.Config) tea.Cmd {
	return func() tea.Msg {
		res, err := search.NewEngine(cfg).Choose(ctx, snap)
		return aiDoneMsg{res: res, pruning: cfg.Pruning, err: err}
	}
}

func enumerateCmd(ctx context.Context, snap *game.Board, depth, workers int) tea.Cmd {
	return func() tea.Msg {
		enum := sequences.Enumerator{Workers: workers}
		seqs, err := enum.Run(ctx, snap, depth)
		return sequencesMsg{seqs: seqs, depth: depth, err: err}
	}
}

func describeAI(res search.Result, pruning bool) string {
	algo := "minimax"
	if pruning {
		algo = "alpha-beta"
	}
	if !res.Found {
		return fmt.Sprintf("%s: no move, passed", algo)
	}
	return fmt.Sprintf("%s chose %s (score %+d, %d nodes, %d cutoffs)",
		algo, res.Move, res.Score, res.Stats.Nodes, res.Stats.Cutoffs)
}

func (m model) View() string {
	if m.mode == modeSequences {
		return m.viewSequences()
	}
	board := boardStyle.Render(m.renderBoard())
	return lipgloss.JoinHorizontal(lipgloss.Top, board, panelStyle.Render(m.renderPanel())) + "\n"
}

func (m model) renderBoard() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < game.Size; c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	sb.WriteByte('\n')
	b := m.sess.Board
	for r := 0; r < game.Size; r++ {
		fmt.Fprintf(&sb, "%d ", r)
		for c := 0; c < game.Size; c++ {
			cell := "."
			style := markerStyle
			switch b.At(r, c) {
			case game.Black:
				cell, style = "B", blackStyle
			case game.White:
				cell, style = "W", whiteStyle
			default:
				if b.IsMarked(r, c) {
					cell = "*"
				}
			}
			if r == m.cursor.Row && c == m.cursor.Col {
				style = style.Inherit(cursorStyle)
			}
			sb.WriteByte(' ')
			sb.WriteString(style.Render(cell))
		}
		if r < game.Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (m model) renderPanel() string {
	s := m.sess
	var lines []string
	lines = append(lines, titleStyle.Render("Othello"))
	lines = append(lines, fmt.Sprintf("Black %2d  White %2d  (%+d)", s.Board.Count(game.Black), s.Board.Count(game.White), s.Score()))
	if s.Over() {
		lines = append(lines, bannerStyle.Render("Game over: "+s.Outcome()))
	} else {
		lines = append(lines, fmt.Sprintf("%s to move", s.Board.Side))
	}
	lines = append(lines, fmt.Sprintf("Cursor %s", m.cursor))

	lines = append(lines, "")
	from := max(len(s.History)-recentTurns, 0)
	for i := from; i < len(s.History); i++ {
		t := s.History[i]
		lines = append(lines, fmt.Sprintf("%3d. %-8s %s", i+1, t.String(), t.Actor))
	}

	lines = append(lines, "")
	switch {
	case m.busy != "":
		lines = append(lines, m.busy+"...")
	case m.err != nil:
		lines = append(lines, errStyle.Render(m.err.Error()))
	case m.status != "":
		lines = append(lines, m.status)
	}
	lines = append(lines, helpStyle.Render("arrows move  enter play  a AI  p AI+pruning"))
	lines = append(lines, helpStyle.Render("s sequences  n new game  q quit"))
	return strings.Join(lines, "\n")
}

func (m model) viewSequences() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Sequences (%d)", len(m.seqs))))
	sb.WriteByte('\n')
	end := min(m.offset+m.pageSize(), len(m.seqs))
	for _, seq := range m.seqs[m.offset:end] {
		sb.WriteString(seq.String())
		sb.WriteByte('\n')
	}
	sb.WriteString(helpStyle.Render(fmt.Sprintf("%d-%d of %d  up/down scroll  pgup/pgdown page  esc close",
		min(m.offset+1, len(m.seqs)), end, len(m.seqs))))
	sb.WriteByte('\n')
	return sb.String()
}
