package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"tidy/internal/classify"
	"tidy/internal/config"
	"tidy/internal/event"
	"tidy/internal/filter"
	"tidy/internal/journal"
	"tidy/internal/organize"
	"tidy/internal/report"
	"tidy/internal/scan"
	"tidy/internal/stats"
	"tidy/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// excludeFlag is a custom pflag.Value that appends --exclude patterns to
// a shared filter.Chain, preserving CLI ordering.
type excludeFlag struct {
	chain *filter.Chain
}

func (*excludeFlag) String() string { return "" }
func (*excludeFlag) Type() string   { return "string" }

func (f *excludeFlag) Set(val string) error {
	return f.chain.AddExclude(val)
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: main CLI entry point orchestrates all flag parsing and mode selection
func run() int {
	var (
		recursive    bool
		maxDepth     int
		byDate       bool
		dateFormat   string
		bySize       bool
		thresholdStr string
		duplicates   bool
		dupPolicyStr string
		moveFlag     bool
		createDirs   bool
		verbose      bool
		quiet        bool
		showVersion  bool
		categoryFile string
		exportFile   string
		logFile      string
		noJournal    bool
	)

	chain := filter.NewChain()

	rootCmd := &cobra.Command{
		Use:   "tidy [flags] <directory>",
		Short: "Organize a directory by file type, date, or size",
		Long: `tidy scans a directory, groups files by category (or by date or
size), and shows the resulting plan. Nothing moves unless --move is
given; --create-dirs creates the destination directories only.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "tidy %s\n", version)
				return nil
			}

			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}

			// Apply config defaults for flags not explicitly set on CLI.
			applyConfigDefaults(cmd, cfg.Defaults,
				&recursive, &maxDepth, &duplicates, &dupPolicyStr,
				&dateFormat, &thresholdStr, &categoryFile)

			mode := scan.ModeCategory
			switch {
			case byDate && bySize:
				mode = scan.ModeDateSize
			case byDate:
				mode = scan.ModeDate
			case bySize:
				mode = scan.ModeSize
			}

			granularity, err := scan.ParseGranularity(dateFormat)
			if err != nil {
				return err
			}
			policy, err := scan.ParseDuplicatePolicy(dupPolicyStr)
			if err != nil {
				return err
			}
			threshold, err := filter.ParseSize(thresholdStr)
			if err != nil {
				return fmt.Errorf("invalid --size-threshold: %w", err)
			}

			var table *classify.Table // nil means built-in categories
			if categoryFile != "" {
				table, err = config.LoadCategories(categoryFile)
				if err != nil {
					return err
				}
			}

			// Configure logging.
			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			}
			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			slog.SetDefault(slog.New(logHandler))

			dryRun := !moveFlag && !createDirs
			if dryRun && !quiet {
				slog.Debug("dry run: pass --move to apply the plan")
			}

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			presenter := ui.NewPresenter(ui.Config{
				Writer:    os.Stdout,
				ErrWriter: os.Stderr,
				Stats:     collector,
				Root:      root,
				Quiet:     quiet,
				Verbose:   verbose,
				DryRun:    dryRun,
			})

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(events)
			}()

			scanCfg := scan.Config{
				Root:          root,
				Recursive:     recursive,
				MaxDepth:      maxDepth,
				Mode:          mode,
				Granularity:   granularity,
				SizeThreshold: threshold,
				Duplicates:    duplicates,
				Policy:        policy,
				Table:         table,
				Events:        events,
				Stats:         collector,
			}
			if !chain.Empty() {
				scanCfg.Filter = chain
			}

			slog.Debug("starting scan",
				"root", root,
				"mode", mode.String(),
				"recursive", recursive,
				"duplicates", duplicates,
			)

			plan, err := scan.NewScanner(scanCfg).Scan()
			if err != nil {
				close(events)
				presenterWg.Wait()
				slog.Error("scan failed", "error", err)
				return &exitError{code: 2}
			}

			if exportFile != "" {
				if err := report.Export(exportFile, plan); err != nil {
					close(events)
					presenterWg.Wait()
					return err
				}
			}

			var execErr error
			if dryRun {
				if !quiet {
					report.Render(os.Stdout, plan, verbose)
				}
			} else {
				execErr = execute(executeOpts{
					root:       root,
					plan:       plan,
					createOnly: createDirs && !moveFlag,
					noJournal:  noJournal,
					events:     events,
					stats:      collector,
				})
			}

			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			if !quiet && !dryRun {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}

			if execErr != nil {
				slog.Error("organize failed", "error", execErr)
				var rbErr *organize.RollbackError
				if errors.As(execErr, &rbErr) {
					return &exitError{code: 2} // tree may be inconsistent
				}
				return &exitError{code: 1} // rolled back cleanly
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	rootCmd.Flags().
		IntVar(&maxDepth, "max-depth", 0, "recursion depth limit (0 = unbounded)")
	rootCmd.Flags().BoolVar(&byDate, "by-date", false, "group files by modification date")
	rootCmd.Flags().
		StringVar(&dateFormat, "date-format", "month", "date grouping: year, month, or day")
	rootCmd.Flags().BoolVar(&bySize, "by-size", false, "split large files into a separate tier")
	rootCmd.Flags().
		StringVar(&thresholdStr, "size-threshold", "100M", "files at or above SIZE go to the large tier (e.g. 500M, 1G)")
	rootCmd.Flags().BoolVar(&duplicates, "duplicates", false, "detect duplicate file content (BLAKE3)")
	rootCmd.Flags().
		StringVar(&dupPolicyStr, "dup-policy", "skip", "duplicate handling: skip, rename, replace, or keep-both")
	rootCmd.Flags().BoolVar(&moveFlag, "move", false, "apply the plan (default is a dry run)")
	rootCmd.Flags().
		BoolVar(&createDirs, "create-dirs", false, "create destination directories without moving files")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().
		StringVar(&categoryFile, "categories", "", "load custom categories from JSON FILE")
	rootCmd.Flags().StringVar(&exportFile, "export", "", "export the plan as JSON to FILE")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write structured JSON log to FILE")
	rootCmd.Flags().BoolVar(&noJournal, "no-journal", false, "skip recording the run in the journal")

	// Exclude flag: custom pflag.Value, repeatable.
	rootCmd.Flags().
		Var(&excludeFlag{chain: chain}, "exclude", "exclude files matching PATTERN (repeatable)")

	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

type executeOpts struct {
	root       string
	plan       *scan.Plan
	createOnly bool
	noJournal  bool
	events     chan<- event.Event
	stats      *stats.Collector
}

// execute applies the plan and records the run in the journal. Journal
// problems are logged, never fatal; the filesystem work proceeds.
func execute(opts executeOpts) error {
	var jnl *journal.Journal
	var runID string
	if !opts.noJournal && !opts.createOnly {
		var err error
		jnl, err = journal.Open(journal.DefaultPath())
		if err != nil {
			slog.Warn("journal unavailable", "error", err)
		} else {
			defer jnl.Close()
			runID, err = jnl.BeginRun(opts.root, opts.plan.Mode.String())
			if err != nil {
				slog.Warn("journal begin", "error", err)
				runID = ""
			}
		}
	}

	mover := organize.NewMover(organize.Config{
		Root:       opts.root,
		Plan:       opts.plan,
		CreateOnly: opts.createOnly,
		Events:     opts.events,
		Stats:      opts.stats,
	})
	execErr := mover.Execute()

	if jnl != nil && runID != "" {
		moves := make([]journal.Move, 0, len(mover.Moved()))
		for _, m := range mover.Moved() {
			moves = append(moves, journal.Move{Src: m.From, Dst: m.To})
		}
		if err := jnl.RecordMoves(runID, moves); err != nil {
			slog.Warn("journal record", "error", err)
		}
		if err := jnl.FinishRun(runID, runStatus(execErr)); err != nil {
			slog.Warn("journal finish", "error", err)
		}
	}
	return execErr
}

func runStatus(execErr error) string {
	if execErr == nil {
		return journal.StatusCommitted
	}
	var rbErr *organize.RollbackError
	if errors.As(execErr, &rbErr) {
		return journal.StatusFailed
	}
	return journal.StatusRolledBack
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	recursive *bool,
	maxDepth *int,
	duplicates *bool,
	dupPolicy *string,
	dateFormat *string,
	threshold *string,
	categoryFile *string,
) {
	if !cmd.Flags().Changed("recursive") && defaults.Recursive != nil {
		*recursive = *defaults.Recursive
	}
	if !cmd.Flags().Changed("max-depth") && defaults.MaxDepth != nil {
		*maxDepth = *defaults.MaxDepth
	}
	if !cmd.Flags().Changed("duplicates") && defaults.Duplicates != nil {
		*duplicates = *defaults.Duplicates
	}
	if !cmd.Flags().Changed("dup-policy") && defaults.DuplicatePolicy != nil {
		*dupPolicy = *defaults.DuplicatePolicy
	}
	if !cmd.Flags().Changed("date-format") && defaults.DateFormat != nil {
		*dateFormat = *defaults.DateFormat
	}
	if !cmd.Flags().Changed("size-threshold") && defaults.SizeThreshold != nil {
		*threshold = *defaults.SizeThreshold
	}
	if !cmd.Flags().Changed("categories") && defaults.Categories != nil {
		*categoryFile = *defaults.Categories
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
