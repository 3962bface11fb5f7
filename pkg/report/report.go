// Package report renders evaluation results as JSON, Markdown, or HTML
// documents, and produces comparative analyses across multiple graphs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"kgeval/pkg/eval"
)

// Format selects a report output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatJSON, FormatMarkdown, FormatHTML:
		return Format(name), nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q", name)
	}
}

// Report wraps one evaluation result with generation metadata.
type Report struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Results     *eval.Result `json:"results"`
}

// New wraps a result, stamping the current time.
func New(result *eval.Result) *Report {
	return &Report{
		GeneratedAt: time.Now().UTC(),
		Results:     result,
	}
}

// Write renders the report in the given format.
func (r *Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatMarkdown:
		return r.WriteMarkdown(w)
	case FormatHTML:
		return r.WriteHTML(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON renders the report as an indented JSON document under a
// "kg_eval_report" envelope.
func (r *Report) WriteJSON(w io.Writer) error {
	envelope := map[string]*Report{"kg_eval_report": r}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(envelope)
}
