package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2txt/internal/ledger"
)

// rootArgs accepts the two directory arguments of a conversion, or none when
// --history is given. There are no subcommands, so any directory name is a
// valid positional argument.
func rootArgs(cmd *cobra.Command, args []string) error {
	if history, _ := cmd.Flags().GetBool("history"); history {
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(2)(cmd, args)
}

// runHistory lists the most recent outcomes stored by runs that used
// --ledger, newest first.
func runHistory(cmd *cobra.Command, v *viper.Viper) error {
	path := v.GetString(keyLedger)
	if path == "" {
		return fmt.Errorf("no ledger configured: pass --ledger or set ledger in the config file")
	}

	led, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer led.Close()

	entries, err := led.Recent(cmd.Context(), v.GetInt(keyLimit))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No outcomes recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s  %-9s  %s -> %s", e.FinishedAt.Local().Format(time.DateTime), shortID(e.RunID), e.Outcome, e.Source, e.Target)
		if e.Error != "" {
			fmt.Fprintf(out, "  (%s)", e.Error)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// shortID abbreviates a run id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
