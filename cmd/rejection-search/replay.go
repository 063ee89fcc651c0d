package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/vdaf-rejection-search/internal/parser"
	"github.com/mahdiidarabi/vdaf-rejection-search/pkg/rejsearch"
)

type replayFlags struct {
	seed     string
	field    string
	prg      string
	custom   string
	binder   string
	count    int
	report   string
	offset   int
	rejected string
	next     string
}

func newReplayCmd() *cobra.Command {
	flags := &replayFlags{}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-expand a seed, or verify a reported rejection",
		Long: `Without verification flags, prints the first --count chunk values of the
seed stream and marks the ones that would be rejected.

With --report (a saved json or yaml report) or --rejected/--next/--offset,
checks that the seed reproduces the reported rejection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.seed, "seed", "", "Seed as 32 hex digits")
	cmd.Flags().StringVarP(&flags.field, "field", "f", rejsearch.DefaultFieldName, "Field the seed was searched for")
	cmd.Flags().StringVar(&flags.prg, "prg", rejsearch.DefaultPRGName, "Seed stream generator (sha3, blake3)")
	cmd.Flags().StringVar(&flags.custom, "custom", "", "PRG customization string, 'hex:' prefix for hex")
	cmd.Flags().StringVar(&flags.binder, "binder", "", "PRG binder string, 'hex:' prefix for hex")
	cmd.Flags().IntVarP(&flags.count, "count", "c", 10, "Number of chunks to print")
	cmd.Flags().StringVar(&flags.report, "report", "", "Verify the rejection in this json or yaml report file")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "Offset of the reported rejection")
	cmd.Flags().StringVar(&flags.rejected, "rejected", "", "Reported rejected value to verify")
	cmd.Flags().StringVar(&flags.next, "next", "", "Reported next value to verify")
	return cmd
}

func runReplay(cmd *cobra.Command, flags *replayFlags) error {
	if flags.report != "" {
		return verifyReport(cmd, flags)
	}

	seed, err := rejsearch.ParseSeed(flags.seed)
	if err != nil {
		return err
	}
	field, err := rejsearch.FieldByName(flags.field)
	if err != nil {
		return err
	}
	prg, err := rejsearch.PRGByName(flags.prg)
	if err != nil {
		return err
	}
	custom, err := parser.ParseContext(flags.custom)
	if err != nil {
		return fmt.Errorf("%w: --custom: %v", rejsearch.ErrInvalidConfig, err)
	}
	binder, err := parser.ParseContext(flags.binder)
	if err != nil {
		return fmt.Errorf("%w: --binder: %v", rejsearch.ErrInvalidConfig, err)
	}

	if flags.rejected != "" || flags.next != "" {
		rejected, err := parser.ParseBigInt(flags.rejected)
		if err != nil {
			return fmt.Errorf("%w: --rejected: %v", rejsearch.ErrInvalidConfig, err)
		}
		next, err := parser.ParseBigInt(flags.next)
		if err != nil {
			return fmt.Errorf("%w: --next: %v", rejsearch.ErrInvalidConfig, err)
		}
		rej := &rejsearch.Rejection{
			Field:    field.Name(),
			PRG:      prg.Name(),
			Seed:     seed,
			Custom:   custom,
			Binder:   binder,
			Offset:   flags.offset,
			Length:   flags.offset + 1,
			Rejected: rejected,
			Next:     next,
		}
		if err := rejsearch.Verify(prg, field, rej); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "verified: %s\n", rej.String())
		return nil
	}

	values, err := rejsearch.Replay(prg, field, seed, custom, binder, flags.count)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, v := range values {
		mark := ""
		if v.Cmp(field.Modulus()) >= 0 {
			mark = " (rejected)"
		}
		fmt.Fprintf(out, "%d: %s%s\n", i, v.Text(10), mark)
	}
	return nil
}

func verifyReport(cmd *cobra.Command, flags *replayFlags) error {
	file, err := os.Open(flags.report)
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	rej, err := rejsearch.ReadReport(file)
	if err != nil {
		return err
	}
	fieldName, prgName := rej.Field, rej.PRG
	if cmd.Flags().Changed("field") || fieldName == "" {
		fieldName = flags.field
	}
	if cmd.Flags().Changed("prg") || prgName == "" {
		prgName = flags.prg
	}
	field, err := rejsearch.FieldByName(fieldName)
	if err != nil {
		return err
	}
	prg, err := rejsearch.PRGByName(prgName)
	if err != nil {
		return err
	}
	if err := rejsearch.Verify(prg, field, rej); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "verified: %s\n", rej.String())
	return nil
}
