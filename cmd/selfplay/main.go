package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/brensch/othello/config"
	"github.com/brensch/othello/executor/search"
	"github.com/brensch/othello/executor/selfplay"
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/logging"
	"github.com/brensch/othello/store"
)

var totalPlies atomic.Int64
var totalNodes atomic.Int64
var totalGames atomic.Int64

type gameWriteRequest struct {
	rows []store.TurnRow
}

type tally struct {
	black, white, ties int
}

func main() {
	fs := pflag.NewFlagSet("selfplay", pflag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional config file (yaml, toml or json)")
	whiteDepth := fs.Int("white-depth", -1, "Search depth for White (defaults to --search-depth)")
	openingPlies := fs.Int("opening-plies", 4, "Random plies played before the engines take over")
	gamesPerFlush := fs.Int("games-per-flush", 50, "Number of games to buffer per parquet flush")
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logging.Must(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	// Games run in parallel; each engine searches its root sequentially.
	black := cfg.Search()
	black.Workers = 1
	white := black
	if *whiteDepth >= 0 {
		white.Depth = *whiteDepth
	}

	log.Infow("starting self-play",
		"workers", cfg.Workers,
		"games", cfg.Games,
		"black_depth", black.Depth,
		"white_depth", white.Depth,
		"pruning", black.Pruning,
		"out_dir", cfg.OutDir,
	)

	results := make(chan selfplay.GameResult, cfg.Workers)
	writeReqs := make(chan gameWriteRequest, cfg.Workers*4)

	writerDone := make(chan struct{})
	go func() {
		parquetWriterLoop(cfg.OutDir, *gamesPerFlush, writeReqs, log)
		close(writerDone)
	}()

	var workerWG sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		workerWG.Add(1)
		go func(workerID int) {
			defer workerWG.Done()
			runWorker(ctx, cancel, workerID, black, white, *openingPlies, int64(cfg.Games), results, writeReqs, log)
		}(i)
	}

	startTime := time.Now()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	var t tally

	for {
		select {
		case <-ctx.Done():
			log.Infow("shutdown requested; waiting for workers to finish current games")
			workerWG.Wait()
			close(writeReqs)
			<-writerDone
			log.Infow("shutdown complete",
				"games", totalGames.Load(),
				"black_wins", t.black,
				"white_wins", t.white,
				"ties", t.ties,
			)
			return
		case res := <-results:
			switch res.Winner {
			case game.Black:
				t.black++
			case game.White:
				t.white++
			default:
				t.ties++
			}
			log.Debugw("game finished", "game", res.GameID, "plies", res.Plies, "winner", res.Winner.String(), "score", res.Score)
		case <-ticker.C:
			secs := time.Since(startTime).Seconds()
			log.Infow("stats",
				"games", totalGames.Load(),
				"plies_per_sec", fmt.Sprintf("%.2f", float64(totalPlies.Load())/secs),
				"nodes_per_sec", fmt.Sprintf("%.0f", float64(totalNodes.Load())/secs),
				"black_wins", t.black,
				"white_wins", t.white,
				"ties", t.ties,
			)
		}
	}
}

func runWorker(
	ctx context.Context,
	cancel context.CancelFunc,
	workerID int,
	black, white search.Config,
	openingPlies int,
	maxGames int64,
	results chan<- selfplay.GameResult,
	writeReqs chan<- gameWriteRequest,
	log *zap.SugaredLogger,
) {
	wlog := log.With("worker", workerID)
	wlog.Debugw("worker started")
	seed := time.Now().UnixNano() + int64(workerID)*1000003
	for {
		if ctx.Err() != nil {
			return
		}

		opts := selfplay.Options{
			OpeningPlies: openingPlies,
			Seed:         seed,
			OnPly:        func() { totalPlies.Add(1) },
			Log:          wlog,
		}
		seed++
		res, rows, err := selfplay.PlayGameWithOptions(ctx, "", black, white, opts)
		if err != nil {
			if ctx.Err() == nil {
				log.Errorw("game aborted", "worker", workerID, zap.Error(err))
			}
			continue
		}
		totalNodes.Add(res.BlackNodes + res.WhiteNodes)
		total := totalGames.Add(1)
		if maxGames > 0 && total >= maxGames {
			cancel()
		}

		writeReqs <- gameWriteRequest{rows: rows}

		// Avoid blocking shutdown if the stats loop stops consuming.
		select {
		case results <- res:
		default:
		}
	}
}

func parquetWriterLoop(outDir string, gamesPerFlush int, in <-chan gameWriteRequest, log *zap.SugaredLogger) {
	if gamesPerFlush <= 0 {
		gamesPerFlush = 50
	}

	pendingRows := make([]store.TurnRow, 0, game.Cells*gamesPerFlush)
	pendingGames := 0

	flush := func(final bool) {
		if outDir == "" || pendingGames == 0 {
			pendingRows, pendingGames = pendingRows[:0], 0
			return
		}
		outPath, err := store.WriteTurnsParquet(outDir, pendingRows)
		if err != nil {
			log.Errorw("parquet flush failed", "final", final, "games", pendingGames, "rows", len(pendingRows), zap.Error(err))
		} else {
			log.Infow("parquet flush ok", "final", final, "path", outPath, "games", pendingGames, "rows", len(pendingRows))
		}
		pendingRows, pendingGames = pendingRows[:0], 0
	}

	for req := range in {
		if len(req.rows) == 0 {
			continue
		}
		pendingRows = append(pendingRows, req.rows...)
		pendingGames++

		if pendingGames >= gamesPerFlush {
			flush(false)
		}
	}
	flush(true)
}
