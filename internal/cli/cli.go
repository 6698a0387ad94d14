// Package cli implements the weave command: weave a draft file and print
// the pattern.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"

	"github.com/Magnamura/card-weaving-generator/internal/adapters/drafts"
	"github.com/Magnamura/card-weaving-generator/internal/adapters/kv"
	"github.com/Magnamura/card-weaving-generator/internal/adapters/render"
	"github.com/Magnamura/card-weaving-generator/internal/adapters/script"
	"github.com/Magnamura/card-weaving-generator/internal/app"
	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/logs"
	"github.com/Magnamura/card-weaving-generator/internal/palette"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Options struct {
	Format    string
	Output    string
	Draft     string
	Script    string
	Rows      int
	Cell      int
	MaxSteps  uint64
	Strict    bool
	List      bool
	EmitDraft string
	Verbose   bool
	Input     string
}

func newFlagSet(opt *Options) *flag.FlagSet {
	fs := flag.NewFlagSet("weave", flag.ContinueOnError)
	fs.StringVar(&opt.Format, "format", render.FormatText, "output format: "+strings.Join(render.Formats(), " | "))
	fs.StringVar(&opt.Output, "o", "", "write output to file instead of stdout")
	fs.StringVar(&opt.Draft, "draft", "", "use a built-in draft by id (see -list)")
	fs.StringVar(&opt.Script, "script", "", "Starlark file defining turn(row, card); replaces the draft's turning")
	fs.IntVar(&opt.Rows, "rows", 0, "rows to generate with -script (0 = keep the draft's row count)")
	fs.Uint64Var(&opt.MaxSteps, "max-steps", 1_000_000, "Starlark step budget (0 = unlimited)")
	fs.IntVar(&opt.Cell, "cell", render.DefaultCell, "png swatch size in pixels")
	fs.BoolVar(&opt.Strict, "strict", false, "reject out-of-contract input")
	fs.BoolVar(&opt.List, "list", false, "list built-in drafts and exit")
	fs.StringVar(&opt.EmitDraft, "emit-draft", "", "print the (possibly scripted) draft as yaml | json instead of weaving")
	fs.BoolVar(&opt.Verbose, "v", false, "debug logging on stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `weave: card weaving pattern generator

Usage: weave [flags] [draft.yaml | -]

`)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs parses argv into Options.
func ParseArgs(argv []string) (Options, *flag.FlagSet, error) {
	var opt Options
	fs := newFlagSet(&opt)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(argv); err != nil {
		return opt, fs, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opt.Input = fs.Arg(0)
	default:
		return opt, fs, fmt.Errorf("expected at most one draft file, got %d", fs.NArg())
	}
	if !opt.List && opt.Input == "" && opt.Draft == "" {
		return opt, fs, errors.New("a draft file or -draft is required")
	}
	if opt.Input != "" && opt.Draft != "" {
		return opt, fs, errors.New("use either a draft file or -draft, not both")
	}
	if opt.Cell <= 0 {
		return opt, fs, errors.New("-cell must be positive")
	}
	if opt.Rows < 0 {
		return opt, fs, errors.New("-rows must not be negative")
	}
	return opt, fs, nil
}

// Run executes the command and returns the process exit code.
func Run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opt, fs, err := ParseArgs(argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return ExitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return ExitUsage
	}

	level := slog.LevelWarn
	if opt.Verbose {
		level = slog.LevelDebug
	}
	off := false
	logger := logs.New(stderr, logs.Options{Level: level, Journal: &off})
	gg.SetLogger(logger)

	ctx := context.Background()
	store := drafts.NewEmbeddedStore()
	svc := app.NewWeavingService(
		store,
		palette.New(ctx, kv.NewMemoryStore(), logger),
		render.New(opt.Cell, logger),
		script.NewStarlark(opt.MaxSteps),
	)

	if opt.List {
		list, err := svc.Drafts(ctx)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitError
		}
		for _, d := range list {
			_, _ = fmt.Fprintf(stdout, "%-12s %2d cards %3d rows  %s\n", d.ID, len(d.Threading), len(d.Turning), d.Name)
		}
		return ExitOK
	}

	d, err := loadDraft(ctx, svc, opt, stdin)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	if opt.Script != "" {
		src, err := os.ReadFile(opt.Script)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		rows := opt.Rows
		if rows == 0 {
			rows = len(d.Turning)
		}
		d.Turning, err = svc.Script(ctx, string(src), rows, len(d.Threading))
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitError
		}
	}

	return write(opt.Output, stdout, stderr, func(w io.Writer) error {
		if opt.EmitDraft != "" {
			return drafts.Encode(w, d, opt.EmitDraft)
		}
		resp, err := svc.Generate(ctx, app.GenerateRequest{Threading: d.Threading, Turning: d.Turning, Strict: opt.Strict})
		if err != nil {
			return err
		}
		logger.Debug("pattern generated", "draft", d.ID, "rows", resp.Rows, "cards", resp.Cards)
		return svc.Render(w, opt.Format, resp.Pattern)
	})
}

func loadDraft(ctx context.Context, svc *app.WeavingService, opt Options, stdin io.Reader) (ports.Draft, error) {
	if opt.Draft != "" {
		return svc.Draft(ctx, opt.Draft)
	}
	if opt.Input == "-" {
		return drafts.Decode(stdin)
	}
	f, err := os.Open(opt.Input)
	if err != nil {
		return ports.Draft{}, err
	}
	defer f.Close()
	d, err := drafts.Decode(f)
	if err != nil {
		return ports.Draft{}, fmt.Errorf("%s: %w", opt.Input, err)
	}
	return d, nil
}

// write runs fn against the output file or stdout, buffered, and maps
// failures to exit codes.
func write(path string, stdout, stderr io.Writer, fn func(io.Writer) error) int {
	var dst io.Writer = stdout
	var file *os.File
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitError
		}
		file = f
		dst = f
	}

	bw := bufio.NewWriter(dst)
	err := fn(bw)
	if err == nil {
		err = bw.Flush()
	}
	if file != nil {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitOK
}
