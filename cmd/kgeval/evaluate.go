package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kgeval/pkg/report"
)

var (
	evaluateDimensions []string
	evaluateFormat     string
	evaluateOutput     string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [graph.json]",
	Short: "Evaluate a single knowledge graph",
	Long: `Evaluates one knowledge-graph JSON document and writes a report.
The graph argument is a local file path or an s3://bucket/key URL.
Without --output the report goes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringSliceVar(&evaluateDimensions, "dimensions", nil, "dimensions to evaluate (default all)")
	evaluateCmd.Flags().StringVar(&evaluateFormat, "format", "json", "report format (json, markdown, html)")
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "output", "o", "", "report output path")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(evaluateFormat)
	if err != nil {
		return err
	}

	dimensions, err := parseDimensions(evaluateDimensions)
	if err != nil {
		return err
	}

	graph, err := loadGraph(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	evaluator, err := newEvaluator()
	if err != nil {
		return err
	}

	result, err := evaluator.Evaluate(cmd.Context(), graph, dimensions...)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if evaluateOutput != "" {
		file, err := os.Create(evaluateOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", evaluateOutput, err)
		}
		defer file.Close()
		out = file
	}

	if err := report.New(result).Write(out, format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if evaluateOutput != "" {
		cmd.Printf("Report saved to: %s\n", evaluateOutput)
	}
	return nil
}
