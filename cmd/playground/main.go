// playground converts text interactively in the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/jusunglee/pinyin/internal/dict/loader"
	"github.com/jusunglee/pinyin/internal/pinyin"
	"github.com/jusunglee/pinyin/internal/playground"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("pinyin-playground")
	sourceFlags := loader.AddFlags(fs)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("PINYIN")); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	cfg, err := sourceFlags.Config()
	if err != nil {
		return err
	}
	// The memory loader keeps typing responsive; other loaders re-read data
	// on every keystroke.
	if cfg.Kind == loader.KindFile {
		cfg.Kind = loader.KindMemory
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := loader.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening dictionary: %w", err)
	}
	defer src.Close()

	// Logging would draw over the TUI.
	conv := pinyin.New(src, pinyin.WithLogger(slog.New(slog.DiscardHandler)))
	return playground.Run(ctx, conv)
}
