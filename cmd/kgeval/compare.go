package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"kgeval/pkg/eval"
	"kgeval/pkg/report"
)

var (
	compareNames    []string
	compareOutput   string
	compareParallel int
)

var compareCmd = &cobra.Command{
	Use:   "compare [graph.json...]",
	Short: "Compare multiple knowledge graphs",
	Long: `Evaluates two or more knowledge-graph JSON files and writes a
comparison report with per-metric rankings and an overall winner.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareNames, "names", nil, "display names for the graphs, matched by position")
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "comparison output path")
	compareCmd.Flags().IntVar(&compareParallel, "parallel", 2, "graphs evaluated concurrently")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	names := compareNames
	if len(names) == 0 {
		names = make([]string, len(args))
		for i, path := range args {
			names[i] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}
	if len(names) != len(args) {
		return fmt.Errorf("got %d names for %d graphs", len(names), len(args))
	}

	evaluator, err := newEvaluator()
	if err != nil {
		return err
	}

	results := make([]*eval.Result, len(args))

	group, ctx := errgroup.WithContext(cmd.Context())
	if compareParallel > 0 {
		group.SetLimit(compareParallel)
	}
	for i, path := range args {
		group.Go(func() error {
			graph, err := loadGraph(ctx, path)
			if err != nil {
				return err
			}
			result, err := evaluator.Evaluate(ctx, graph)
			if err != nil {
				return fmt.Errorf("evaluation of %s failed: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	comparison, err := report.Compare(names, results)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if compareOutput != "" {
		file, err := os.Create(compareOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", compareOutput, err)
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(comparison); err != nil {
		return fmt.Errorf("failed to write comparison: %w", err)
	}

	summary := comparison.ComparativeAnalysis.Summary
	cmd.Printf("Compared %d graphs across %d metrics, overall winner: %s\n",
		len(args), summary.TotalMetricsCompared, summary.OverallWinner)
	return nil
}
