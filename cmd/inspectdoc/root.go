package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gardar/inspectdoc/pkg/config"
	"github.com/gardar/inspectdoc/pkg/fetch"
)

// app holds the state shared by all subcommands
type app struct {
	configPath string
	logLevel   string

	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "inspectdoc",
		Short:         "Generate bilingual inspection reports and invoices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the config YAML file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides log_level in the config)")

	root.AddCommand(
		newReportCmd(a),
		newInvoiceCmd(a),
		newInfoCmd(),
		newMatchCmd(),
	)
	return root
}

// setup loads the configuration and attaches a console logger to the command context
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	lvl, err := a.cfg.Level()
	if err != nil {
		return err
	}

	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
	cmd.SetContext(a.log.WithContext(cmd.Context()))
	return nil
}

func (a *app) fetcher() *fetch.Fetcher {
	fc := a.cfg.Fetch
	fc.Logger = &a.log
	return fetch.New(fc)
}

// outputFlags are shared by the document commands
type outputFlags struct {
	output    string
	overwrite bool
	xlsx      bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", ".", "Output directory or .pdf path")
	cmd.Flags().BoolVar(&o.overwrite, "overwrite", false, "Overwrite the output file if it already exists")
	cmd.Flags().BoolVar(&o.xlsx, "xlsx", false, "Also write an XLSX workbook next to the PDF")
}

// path resolves the output file for a generated document name
func (o *outputFlags) path(name string) string {
	if strings.EqualFold(filepath.Ext(o.output), ".pdf") {
		return o.output
	}
	return filepath.Join(o.output, name)
}

// write stores data at path, refusing to replace an existing file without --overwrite
func (o *outputFlags) write(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil && !o.overwrite {
		return fmt.Errorf("output file %s already exists, use --overwrite to replace it", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

func xlsxPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".xlsx"
}
