// pinyin converts Chinese text from the command line.
//
//	pinyin [flags] <convert|name|permalink|abbr|phrase|sentence> <text...>
//
// With no text arguments the text is read from stdin. Every flag can also be
// set through a PINYIN_ environment variable, e.g. PINYIN_LOADER=memory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/jusunglee/pinyin/internal/dict/loader"
	"github.com/jusunglee/pinyin/internal/logger"
	"github.com/jusunglee/pinyin/internal/pinyin"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/samber/lo"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	// Logs go to stderr so stdout carries only the conversion.
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, os.Getenv("LOG_FORMAT"), logger.ParseLevel(os.Getenv("LOG_LEVEL")))))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, os.Args[1:], os.Stdin, os.Stdout)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := ff.NewFlagSet("pinyin")
	var (
		sourceFlags = loader.AddFlags(fs)
		optionList  = fs.StringLong("options", "", "comma separated options: "+strings.Join(pinyin.OptionNames(), ", "))
		delimiter   = fs.StringLong("delimiter", "", "token delimiter (default depends on the operation)")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("PINYIN")); err != nil {
		fmt.Fprintf(stdout, "%s\n", ffhelp.Flags(fs, "pinyin [flags] <operation> <text...>"))
		return fmt.Errorf("parsing flags: %w", err)
	}

	rest := fs.GetArgs()
	if len(rest) == 0 {
		fmt.Fprintf(stdout, "%s\n", ffhelp.Flags(fs, "pinyin [flags] <operation> <text...>"))
		return fmt.Errorf("missing operation (want one of %s)", strings.Join(lo.Map(pinyin.Operations, func(op pinyin.Operation, _ int) string { return string(op) }), ", "))
	}

	op, err := pinyin.ParseOperation(rest[0])
	if err != nil {
		return err
	}

	text := strings.Join(rest[1:], " ")
	if len(rest) == 1 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimRight(string(b), "\r\n")
	}

	opts := op.DefaultOptions()
	if *optionList != "" {
		if opts, err = pinyin.ParseOptionList(*optionList); err != nil {
			return err
		}
	}

	delim := op.DefaultDelimiter()
	if f, ok := fs.GetFlag("delimiter"); ok && f.IsSet() {
		delim = *delimiter
	}

	cfg, err := sourceFlags.Config()
	if err != nil {
		return err
	}
	src, err := loader.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening dictionary: %w", err)
	}
	defer src.Close()

	conv := pinyin.New(src)
	res, err := conv.Run(ctx, op, text, delim, opts)
	if err != nil {
		if errors.Is(err, pinyin.ErrInvalidArgument) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if op.Tokenized() {
		for _, tok := range res.Tokens {
			fmt.Fprintln(stdout, tok)
		}
		return nil
	}
	fmt.Fprintln(stdout, res.Text)
	return nil
}
