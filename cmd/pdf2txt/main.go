// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2txt CLI, which converts every
// PDF in a directory into a plain UTF-8 text file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2txt/internal/pdftext"
	"github.com/pdiddy/pdf2txt/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	keyOverwrite = "overwrite"
	keyPageBreak = "page_break"
	keyBackend   = "backend"
	keyProgress  = "progress"
	keyLedger    = "ledger"
	keyReport    = "report"
	keyLimit     = "limit"
)

// rootFlagKeys maps the conversion flags to viper keys.
var rootFlagKeys = map[string]string{
	"overwrite":  keyOverwrite,
	"page-break": keyPageBreak,
	"backend":    keyBackend,
	"progress":   keyProgress,
	"ledger":     keyLedger,
	"report":     keyReport,
	"limit":      keyLimit,
}

// extractorFactory builds the extraction backend named in the config.
type extractorFactory func(types.Backend) (pdftext.Extractor, error)

// newRootCmd builds the command tree. Each call gets its own viper instance
// so flag and config state never leaks between invocations.
func newRootCmd(v *viper.Viper, newExtractor extractorFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pdf2txt <pdf_dir> <output_dir>",
		Short: "Convert a directory of PDFs into plain text files",
		Long: `pdf2txt extracts the text of every *.pdf file directly inside pdf_dir and
writes it to output_dir/<name>.txt, one file per PDF, in file name order.

Existing text files are skipped unless --overwrite is given. Pages are joined
with a newline, or with a "---" marker between blank lines when --page-break
is set. A file that fails to convert is reported and the batch continues.

With --history, no conversion runs: the most recent outcomes stored in the
--ledger database are listed instead, newest first.`,
		Version:       version,
		Args:          rootArgs,
		SilenceErrors: true,
		// The default completion command would claim an input directory
		// named "completion".
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			bindFlags(v, cmd, rootFlagKeys)
			if history, _ := cmd.Flags().GetBool("history"); history {
				return runHistory(cmd, v)
			}
			cfg := configFromViper(v, args[0], args[1])
			return runConvert(cmd, cfg, newExtractor)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf2txt.yaml or ~/.config/pdf2txt/pdf2txt.yaml)")

	flags := rootCmd.Flags()
	flags.Bool("overwrite", false, "overwrite existing text files instead of skipping them")
	flags.Bool("page-break", false, `insert "---" markers between pages`)
	flags.String("backend", string(types.BackendMuPDF), fmt.Sprintf("extraction backend, one of %v", types.Backends))
	flags.Bool("progress", false, "show a progress bar on stderr")
	flags.String("ledger", "", "SQLite database recording the outcome of every file")
	flags.String("report", "", "write a YAML run summary to this path")
	flags.Bool("history", false, "list recent outcomes from the --ledger database instead of converting")
	flags.Int("limit", 20, "maximum number of outcomes --history shows")

	rootCmd.SetVersionTemplate("pdf2txt {{.Version}}\n")
	return rootCmd
}

func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pdf2txt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pdf2txt"))
		}
	}

	v.SetEnvPrefix("PDF2TXT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
	return nil
}

func configFromViper(v *viper.Viper, pdfDir, outputDir string) types.ConversionConfig {
	return types.ConversionConfig{
		PDFDir:     pdfDir,
		OutputDir:  outputDir,
		Overwrite:  v.GetBool(keyOverwrite),
		PageBreak:  v.GetBool(keyPageBreak),
		Backend:    types.Backend(v.GetString(keyBackend)),
		Progress:   v.GetBool(keyProgress),
		LedgerPath: v.GetString(keyLedger),
		ReportPath: v.GetString(keyReport),
	}
}

// bindFlags attaches the named local flags of cmd to viper keys, so values
// from the config file and environment apply when a flag is not given.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

// execute runs the CLI and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer, newExtractor extractorFactory) int {
	cmd := newRootCmd(viper.New(), newExtractor)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr, pdftext.New))
}
