package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flavorgraph/core/internal/config"
	"github.com/flavorgraph/core/internal/logger"
	"github.com/flavorgraph/core/internal/page"
	"github.com/flavorgraph/core/internal/parser"
	"github.com/flavorgraph/core/internal/selector"
	"github.com/flavorgraph/core/internal/server"
)

const defaultCSV = "flavor_bible_full_w_levels.csv"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flavorgraph",
		Short: "Explore ingredient pairings as a graph",
		Long: `flavorgraph turns a table of ingredient pairings into an interactive graph.
Build the standalone page, print the graph for a selection, or serve the API.`,
		SilenceUsage: true,
	}

	root.AddCommand(newBuildCmd(), newGraphCmd(), newServeCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var csvPath, templatePath, outPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the standalone HTML page with the dataset embedded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := page.Build(csvPath, templatePath, outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d pairings)\n", outPath, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", defaultCSV, "Pairing table to embed")
	cmd.Flags().StringVar(&templatePath, "template", "", "HTML template containing "+page.Placeholder+" (built-in when empty)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "index.html", "Output file")

	return cmd
}

func newGraphCmd() *cobra.Command {
	var (
		csvPath     string
		ingredients []string
		mutual      bool
		compact     bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the pairing graph for a selection as JSON",
		Example: `  flavorgraph graph --ingredient chicken --ingredient garlic --mutual
  flavorgraph graph -i "cheese, goat"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parser.LoadDataset(csvPath)
			if err != nil {
				return err
			}

			view := selector.ComputeGraph(idx, ingredients, mutual)
			graph := parser.BuildGraph(view, idx, mutual)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				encoder.SetIndent("", "  ")
			}
			return encoder.Encode(graph)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", defaultCSV, "Pairing table")
	// StringArray, not StringSlice: ingredient names may contain commas.
	cmd.Flags().StringArrayVarP(&ingredients, "ingredient", "i", nil, "Selected ingredient (repeatable)")
	cmd.Flags().BoolVar(&mutual, "mutual", false, "Only keep pairings shared by every selected ingredient")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on a single line")

	return cmd
}

// newServeCmd hands its arguments to config.LoadConfig so serve accepts the
// same flags as the api binary.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve [flags]",
		Short:              "Run the HTTP API (flags as for the api server, e.g. -port 8080 -dataset file.csv)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(args)
			if err != nil {
				return err
			}

			log := logger.New(logger.Config{
				Writer:      cmd.OutOrStdout(),
				Environment: cfg.App.Environment,
				Level:       logger.ParseLevel(cfg.Logger.Level),
			})

			srv, err := server.New(cfg, log)
			if err != nil {
				return err
			}
			defer srv.Close()

			return srv.Run(cmd.Context())
		},
	}
}
