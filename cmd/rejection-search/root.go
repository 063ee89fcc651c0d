package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/vdaf-rejection-search/internal/parser"
	"github.com/mahdiidarabi/vdaf-rejection-search/pkg/rejsearch"
)

// searchFlags holds the CLI flags shared by the root and search commands.
type searchFlags struct {
	jobs          int           // Worker goroutines
	prgIterations int           // Chunks drawn per seed
	field         string        // Field descriptor name
	prg           string        // Generator name
	custom        string        // PRG customization string
	binder        string        // PRG binder string
	output        string        // Report format
	progress      time.Duration // Throughput report interval, 0 disables
	timeout       time.Duration // Give up after this long, 0 waits forever
}

// newRootCmd builds the command tree. The root command runs the search.
func newRootCmd() *cobra.Command {
	var logLevel string
	flags := &searchFlags{}

	rootCmd := &cobra.Command{
		Use:   "rejection-search",
		Short: "Search for rejection events in VDAF field element sampling",
		Long: `Draws random seeds, expands each into a seed stream and decodes successive
chunks as little-endian integers until one is not below the field modulus.
The first such rejection found by any worker is printed with the chunk
that follows it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	addSearchFlags(rootCmd, flags)

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Run the rejection search (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags)
		},
	}
	addSearchFlags(searchCmd, flags)

	rootCmd.AddCommand(searchCmd, newReplayCmd(), newFieldsCmd())
	return rootCmd
}

func addSearchFlags(cmd *cobra.Command, flags *searchFlags) {
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", runtime.NumCPU(), "Number of worker goroutines")
	cmd.Flags().IntVarP(&flags.prgIterations, "prg-iterations", "n", rejsearch.DefaultPRGIterations, "Chunks drawn from each seed before drawing a new one")
	cmd.Flags().StringVarP(&flags.field, "field", "f", rejsearch.DefaultFieldName, "Field to sample (see 'fields')")
	cmd.Flags().StringVar(&flags.prg, "prg", rejsearch.DefaultPRGName, "Seed stream generator (sha3, blake3)")
	cmd.Flags().StringVar(&flags.custom, "custom", "", "PRG customization string, 'hex:' prefix for hex")
	cmd.Flags().StringVar(&flags.binder, "binder", "", "PRG binder string, 'hex:' prefix for hex")
	cmd.Flags().StringVarP(&flags.output, "output", "o", rejsearch.FormatText, "Report format (text, json, yaml)")
	cmd.Flags().DurationVar(&flags.progress, "progress", 0, "Report throughput at this interval (0 disables)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Stop searching after this long (0 waits until a rejection is found)")
}

// config validates flags into a search configuration. Every error here is
// reported before any worker starts.
func (f *searchFlags) config() (rejsearch.Config, rejsearch.Field, rejsearch.PRG, error) {
	var cfg rejsearch.Config
	custom, err := parser.ParseContext(f.custom)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("%w: --custom: %v", rejsearch.ErrInvalidConfig, err)
	}
	binder, err := parser.ParseContext(f.binder)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("%w: --binder: %v", rejsearch.ErrInvalidConfig, err)
	}
	cfg = rejsearch.Config{
		Jobs:          f.jobs,
		PRGIterations: f.prgIterations,
		Custom:        custom,
		Binder:        binder,
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, nil, err
	}
	field, err := rejsearch.FieldByName(f.field)
	if err != nil {
		return cfg, nil, nil, err
	}
	prg, err := rejsearch.PRGByName(f.prg)
	if err != nil {
		return cfg, nil, nil, err
	}
	switch f.output {
	case rejsearch.FormatText, rejsearch.FormatJSON, rejsearch.FormatYAML:
	default:
		return cfg, nil, nil, fmt.Errorf("%w: unknown output format %q", rejsearch.ErrInvalidConfig, f.output)
	}
	return cfg, field, prg, nil
}

func runSearch(cmd *cobra.Command, flags *searchFlags) error {
	cfg, field, prg, err := flags.config()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	logrus.Infof("Searching %s with %s using %d workers, %d candidates per seed (about %.3g candidates per rejection)",
		field.Name(), prg.Name(), cfg.Jobs, cfg.PRGIterations, rejsearch.ExpectedCandidates(field))

	result, err := rejsearch.NewSearcher(field).
		WithPRG(prg).
		WithConfig(cfg).
		WithOptions(rejsearch.Options{Progress: flags.progress, ProgressOut: cmd.ErrOrStderr()}).
		Search(ctx)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	logrus.Infof("Tested %d candidates from %d seeds in %s", result.Stats.Candidates, result.Stats.Seeds, result.Stats.Elapsed.Round(time.Millisecond))
	return rejsearch.WriteReport(cmd.OutOrStdout(), result.Rejection, flags.output)
}
