package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/codewiki/internal/config"
	"github.com/julianshen/codewiki/internal/output"
	"github.com/julianshen/codewiki/internal/pipeline"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "codewiki",
		Short:         "Generate structured documentation from a source repository",
		Long:          "codewiki scans a repository, extracts its core abstractions, and synthesizes a linked documentation tree with diagrams and a tutorial.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		configPath   string
		outputDir    string
		format       string
		reportFormat string
		title        string
		maxSurfaced  int
		autoRepair   bool
	)

	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Analyze a repository and write its documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.Render.OutputDir = outputDir
			}
			if format != "" {
				cfg.Render.Format = format
			}
			if reportFormat != "" {
				cfg.Report.Format = reportFormat
			}
			if title != "" {
				cfg.Render.Title = title
			}
			if maxSurfaced > 0 {
				cfg.Extract.MaxSurfaced = maxSurfaced
			}
			if cmd.Flags().Changed("auto-repair") {
				cfg.Validate.AutoRepair = autoRepair
			}

			p, err := pipeline.New(root, cfg)
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}

			formatter, err := output.New(cfg.Report.Format)
			if err != nil {
				return err
			}
			rendered, err := formatter.Format(result.Report)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, rendered)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "codewiki.toml", "path to the TOML config file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "documentation output directory")
	cmd.Flags().StringVarP(&format, "format", "f", "", "page format: raw-md, hugo, or docusaurus")
	cmd.Flags().StringVar(&reportFormat, "report", "", "report format: markdown or json")
	cmd.Flags().StringVar(&title, "title", "", "project title for the documentation hub")
	cmd.Flags().IntVar(&maxSurfaced, "max-surfaced", 0, "maximum number of abstractions to document")
	cmd.Flags().BoolVar(&autoRepair, "auto-repair", false, "rewrite dangling cross-references to the closest page")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("codewiki %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
