package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/brensch/othello/config"
	"github.com/brensch/othello/logging"
	"github.com/brensch/othello/session"
)

func main() {
	fs := pflag.NewFlagSet("othello", pflag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional config file (yaml, toml or json)")
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// Logs always go to a file so they do not tear up the board.
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "othello.log"
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := session.New(cfg.Search(), log)
	p := tea.NewProgram(newModel(ctx, sess, cfg.SequenceDepth, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Errorw("ui exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "othello: %v\n", err)
		os.Exit(1)
	}
	log.Infow("bye", "session", sess.ID, "plies", len(sess.History), "outcome", sess.Outcome())
}
