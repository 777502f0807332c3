package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/fspro/internal/config"
	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/filter"
	"github.com/bamsammich/fspro/internal/stats"
	"github.com/bamsammich/fspro/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// app holds state shared by every subcommand: global flags, the loaded
// config file and the optional JSON log file.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	cfg     config.Config
	logFile *os.File
	logPath string
	verbose bool
	quiet   bool
}

func run() int {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	rootCmd := newRootCmd(a)
	defer a.close()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:           "fspro",
		Short:         "Pack, unpack and move directory contents with name filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(a.stdout, "fspro %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "list every entry and log debug detail")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().StringVar(&a.logPath, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(
		newPackCmd(a),
		newUnpackCmd(a),
		newTransferCmd(a),
		newListCmd(a),
		newInfoCmd(a),
		newDocsCmd(),
	)
	return rootCmd
}

// setup configures logging and loads the config file.
func (a *app) setup() error {
	logLevel := slog.LevelWarn
	if a.verbose {
		logLevel = slog.LevelDebug
	} else if !a.quiet {
		logLevel = slog.LevelInfo
	}
	var logHandler slog.Handler = slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	if a.logPath != "" {
		lf, err := os.Create(a.logPath)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = lf
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(logHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "path", config.Path(), "error", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// opFunc performs one operation, reporting progress on events and stats.
type opFunc func(ctx context.Context, events chan<- event.Event, collector *stats.Collector) error

// runOp runs fn with signal handling, a presenter draining its events and
// a summary line at the end. Failures become exitErrors: 1 when some
// entries were already processed, 2 otherwise.
func (a *app) runOp(op string, fn opFunc) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine
	// that writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if a.logFile != nil {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				attrs := []slog.Attr{
					slog.String("type", ev.Type.String()),
					slog.String("op", ev.Op),
					slog.String("path", ev.Path),
					slog.Int64("size", ev.Size),
				}
				if ev.Error != nil {
					attrs = append(attrs, slog.String("error", ev.Error.Error()))
				}
				slog.LogAttrs(context.Background(), slog.LevelDebug, "fspro.event", attrs...)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Stats:     collector,
		Quiet:     a.quiet,
		Verbose:   a.verbose,
	})

	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	err := fn(ctx, events, collector)
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(a.stderr, "presenter: %v\n", presenterErr)
	}

	if !a.quiet {
		if summary := presenter.Summary(op); summary != "" {
			fmt.Fprintln(a.stderr, summary)
		}
	}
	slog.Debug("operation finished", "op", op, "stats", collector.Snapshot().String())

	if err != nil {
		slog.Error(op+" failed", "error", err)
		if collector.Snapshot().EntriesDone > 0 {
			return &exitError{code: 1} // partial failure
		}
		return &exitError{code: 2} // total failure
	}
	return nil
}

// filterFlag is a custom pflag.Value that appends each occurrence of
// --include or --exclude to a shared filter.Options.
type filterFlag struct {
	opts    *filter.Options
	include bool
}

var _ pflag.Value = (*filterFlag)(nil)

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "name" }

func (f *filterFlag) Set(val string) error {
	if val == "" {
		return errors.New("empty name")
	}
	if f.include {
		f.opts.AddInclude(val)
	} else {
		f.opts.AddExclude(val)
	}
	return nil
}

// filterFlags holds the filter-related flags shared by pack and transfer.
type filterFlags struct {
	opts       filter.Options
	filterFile string
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Var(&filterFlag{opts: &ff.opts, include: true}, "include",
		"pack or move only children with this exact name (repeatable)")
	cmd.Flags().Var(&filterFlag{opts: &ff.opts, include: false}, "exclude",
		"skip children with this exact name (repeatable, wins over --include)")
	cmd.Flags().StringVar(&ff.filterFile, "filter", "", "read include/exclude names from FILE")
}

// resolve merges config defaults, the filter file and CLI flags, in that
// order.
func (ff *filterFlags) resolve(defaults filter.Options) (filter.Options, error) {
	out := defaults.Merge(filter.Options{})
	if ff.filterFile != "" {
		if err := out.LoadFile(ff.filterFile); err != nil {
			return filter.Options{}, fmt.Errorf("load filter file: %w", err)
		}
	}
	return out.Merge(ff.opts), nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
