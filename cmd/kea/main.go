package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gokea/adapters/excel"
	"gokea/adapters/report"
	"gokea/app"
	"gokea/internal"
	"gokea/internal/calibration"
	"gokea/internal/config"
	"gokea/internal/container"
	"gokea/internal/errors"
	"gokea/internal/genelist"
	"gokea/ports"

	"github.com/spf13/cobra"
)

// Exit codes by error class
const (
	exitFailure       = 1
	exitConfiguration = 2
	exitInput         = 3
	exitData          = 4
)

var (
	envFile  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "kea",
		Short:         "Kinase enrichment analysis over curated interaction backgrounds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newRunCmd(),
		newDatasetsCmd(),
		newImportCmd(),
		newCalibrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeConfigInvalid:
		return exitConfiguration
	case errors.CodeInvalidInput:
		return exitInput
	case errors.CodeDataInvalid:
		return exitData
	default:
		return exitFailure
	}
}

func newRunCmd() *cobra.Command {
	var interactions, sortBy, resolution, format, output string
	var top int

	cmd := &cobra.Command{
		Use:   "run [gene-list]",
		Short: "Rank kinases by enrichment of their substrates in a gene list",
		Long: `Rank kinases by enrichment of their known substrates in a gene list.

The gene list is a text file with one identifier per line (blank lines and
lines starting with # are ignored) or an .xlsx workbook with identifiers in
column A of the first sheet.

Example: kea run genes.txt --interactions both --resolution kinase --sort-by combined-score -o report.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("interactions") {
				cfg.Analysis.Interactions = interactions
			}
			if flags.Changed("sort-by") {
				cfg.Analysis.SortBy = sortBy
			}
			if flags.Changed("resolution") {
				cfg.Analysis.Resolution = resolution
			}
			if flags.Changed("top") {
				cfg.Report.Top = top
			}
			switch {
			case flags.Changed("format"):
				cfg.Report.Format = format
			case output != "":
				cfg.Report.Format = report.FormatForPath(output, cfg.Report.Format)
			}

			return runEnrichment(cmd.Context(), cfg, logger, args[0], output)
		},
	}

	cmd.Flags().StringVar(&interactions, "interactions", "", "Interaction dataset: kinase-protein|phosphorylation|both|iptmnet")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Ranking key: p-value|rank|combined-score")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Grouping level: kinase-group|kinase-family|kinase")
	cmd.Flags().StringVar(&format, "format", "", "Report format: "+strings.Join(report.Formats(), "|"))
	cmd.Flags().IntVar(&top, "top", 0, "Write only the first N kinases (0 writes all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report file (default stdout)")

	return cmd
}

func runEnrichment(ctx context.Context, cfg *config.Config, logger *internal.Logger, listPath, output string) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if cfg.Report.Top < 0 {
		return errors.ConfigInvalid("--top cannot be negative")
	}
	writer, err := report.NewWriter(cfg.Report.Format)
	if err != nil {
		return err
	}

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	svc := c.Enrichment
	genes, err := svc.LoadGeneList(geneListSource(listPath, logger))
	if err != nil {
		return err
	}

	result, err := svc.Run(ctx, app.EnrichmentRequest{
		Selector: cfg.Selector(),
		Options:  opts,
		Genes:    genes,
	})
	if err != nil {
		return err
	}

	// render fully before touching the destination
	var buf bytes.Buffer
	if err := svc.WriteReport(&buf, writer, result, cfg.Report.Top); err != nil {
		return err
	}
	return writeOutput(output, buf.Bytes())
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the selectable interaction datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			c, err := container.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer c.Shutdown()

			datasets, err := c.Enrichment.Datasets(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range datasets {
				ranks := d.Ranks
				if ranks == "" {
					ranks = "-"
				}
				fmt.Fprintf(out, "%-16s %-60s background=%s ranks=%s\n",
					d.Selector, d.Description, strings.Join(d.Sources, "+"), ranks)
			}
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the resource files into the SQLite store",
		Long: `Import every dataset the registry can resolve from KEA_DATA_DIR into the
SQLite database at KEA_SQLITE_PATH. Datasets whose resource files are missing
are skipped. Re-importing a dataset replaces its rows.

Example: KEA_DATA_DIR=res KEA_SQLITE_PATH=kea.db kea import`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			cfg.Data.Store = config.StoreFiles
			c, err := container.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer c.Shutdown()
			if err := c.OpenSQLite(cmd.Context()); err != nil {
				return err
			}

			imported, err := c.SQLite.Import(cmd.Context(), c.Files)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d datasets into %s\n", len(imported), cfg.Data.SQLitePath)
			return nil
		},
	}
	return cmd
}

func newCalibrateCmd() *cobra.Command {
	var interactions, resolution, output string
	settings := calibration.DefaultSettings()

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Derive rank statistics from random gene lists",
		Long: `Run the enrichment engine over random gene lists drawn from a dataset's
background and write the mean and standard deviation of every kinase's
p-value rank as a rank resource ("name mean stddev" per line).

Example: kea calibrate --interactions both --iterations 1000 --list-size 300 --seed 42 -o res/kea_ranks.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("interactions") {
				cfg.Analysis.Interactions = interactions
			}
			if cmd.Flags().Changed("resolution") {
				cfg.Analysis.Resolution = resolution
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			settings.Resolution = opts.Resolution

			c, err := container.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer c.Shutdown()

			var buf bytes.Buffer
			if err := c.Calibration.CalibrateTo(cmd.Context(), &buf, cfg.Selector(), settings); err != nil {
				return err
			}
			return writeOutput(output, buf.Bytes())
		},
	}

	cmd.Flags().StringVar(&interactions, "interactions", "", "Interaction dataset to calibrate")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Grouping level: kinase-group|kinase-family|kinase")
	cmd.Flags().IntVar(&settings.Iterations, "iterations", calibration.DefaultIterations, "Number of random gene lists")
	cmd.Flags().IntVar(&settings.ListSize, "list-size", calibration.DefaultListSize, "Genes per random list")
	cmd.Flags().Int64Var(&settings.Seed, "seed", calibration.DefaultSeed, "Random seed for deterministic sampling")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Rank resource file (default stdout)")

	return cmd
}

func setup() (*config.Config, *internal.Logger, error) {
	cfg, err := config.LoadWithEnvFile(envFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	return cfg, internal.NewLogger(internal.ParseLogLevel(level)), nil
}

func geneListSource(path string, logger *internal.Logger) ports.LineReader {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return excel.NewGeneListReader(path, logger)
	}
	return genelist.NewFileReader(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
