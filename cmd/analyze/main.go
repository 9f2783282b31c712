package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/brensch/othello/config"
	"github.com/brensch/othello/executor/search"
	"github.com/brensch/othello/executor/sequences"
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/logging"
	"github.com/brensch/othello/store"
)

func main() {
	fs := pflag.NewFlagSet("analyze", pflag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional config file (yaml, toml or json)")
	top := fs.Int("top", 20, "Lines to print from each end of the report (0 prints all)")
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logging.Must(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *top, log); err != nil {
		log.Fatalw("analysis failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, top int, log *zap.SugaredLogger) error {
	root, err := loadPosition(cfg)
	if err != nil {
		return err
	}
	root.ComputeLegalMoves()
	fmt.Printf("Position (%s to move):\n%s\n", root.Side, root)

	start := time.Now()
	enum := sequences.Enumerator{Workers: cfg.Workers}
	seqs, err := enum.Run(ctx, root, cfg.SequenceDepth)
	if err != nil {
		return fmt.Errorf("enumerate: %w", err)
	}
	log.Infow("enumerated sequences", "depth", cfg.SequenceDepth, "lines", len(seqs), "elapsed", time.Since(start))

	printReport(seqs, top)
	printSummary(sequences.Summarize(seqs))

	for _, pruning := range []bool{false, true} {
		sc := cfg.Search()
		sc.Pruning = pruning
		eng := search.NewEngine(sc)
		t0 := time.Now()
		res, err := eng.Choose(ctx, root)
		if err != nil {
			return fmt.Errorf("choose (pruning=%v): %w", pruning, err)
		}
		label := "minimax   "
		if pruning {
			label = "alpha-beta"
		}
		if !res.Found {
			fmt.Printf("%s: no legal move, %s must pass\n", label, root.Side)
			continue
		}
		fmt.Printf("%s: %s score %+d | nodes %d leaves %d cutoffs %d | %s\n",
			label, res.Move, res.Score, res.Stats.Nodes, res.Stats.Leaves, res.Stats.Cutoffs, time.Since(t0).Round(time.Microsecond))
	}

	if cfg.OutDir == "" {
		return nil
	}
	reportID := uuid.NewString()
	path, err := store.WriteSequencesParquet(cfg.OutDir, store.SequenceRows(reportID, root, cfg.SequenceDepth, seqs))
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	log.Infow("report written", "report", reportID, "path", path, "rows", len(seqs))
	return nil
}

// loadPosition reads --position as a diagram file when one exists at that
// path, and as '/'-separated rows otherwise. Empty means the start position.
func loadPosition(cfg *config.Config) (*game.Board, error) {
	if cfg.Position == "" {
		return game.NewGame(), nil
	}
	side, err := cfg.SideColor()
	if err != nil {
		return nil, err
	}
	diagram := strings.ReplaceAll(cfg.Position, "/", "\n")
	if data, err := os.ReadFile(cfg.Position); err == nil {
		diagram = string(data)
	}
	b, err := game.ParseBoard(diagram, side)
	if err != nil {
		return nil, fmt.Errorf("parse position: %w", err)
	}
	return b, nil
}

func printReport(seqs []sequences.Sequence, top int) {
	fmt.Printf("%d sequences\n", len(seqs))
	if top <= 0 || len(seqs) <= 2*top {
		for _, s := range seqs {
			fmt.Println(s)
		}
		return
	}
	for _, s := range seqs[:top] {
		fmt.Println(s)
	}
	fmt.Printf("  ... %d more ...\n", len(seqs)-2*top)
	for _, s := range seqs[len(seqs)-top:] {
		fmt.Println(s)
	}
}

func printSummary(sum sequences.Summary) {
	fmt.Println()
	fmt.Printf("best %+d  worst %+d  mean %+.2f\n", sum.Best, sum.Worst, sum.Mean)
	for _, fm := range sum.ByFirstMove {
		fmt.Printf("  %-8s lines %5d  best %+3d  worst %+3d\n", fm.Move, fm.Lines, fm.Best, fm.Worst)
	}
	fmt.Println()
}
