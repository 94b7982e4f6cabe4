// Package report renders field evaluations for terminals and pipelines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/race-odds/internal/models"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", name)
	}
}

// Row is one runner's line in a rendered report. Numbers are fixed-point
// strings so every format shows the same digits.
type Row struct {
	Index       int    `json:"index" yaml:"index"`
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Weight      string `json:"weight" yaml:"weight"`
	Probability string `json:"last_probability" yaml:"last_probability"`
	FairOdds    string `json:"fair_odds" yaml:"fair_odds"`
}

// Document is the encoded form of an evaluation.
type Document struct {
	Runners     int    `json:"runners" yaml:"runners"`
	Subsets     int    `json:"subsets_enumerated" yaml:"subsets_enumerated"`
	CacheHit    bool   `json:"cache_hit" yaml:"cache_hit"`
	Total       string `json:"total" yaml:"total"`
	EvaluatedAt string `json:"evaluated_at" yaml:"evaluated_at"`
	Rows        []Row  `json:"results" yaml:"results"`
}

// Fixed formats v with exactly places decimals, half away from zero.
func Fixed(v float64, places int) string {
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

// Build converts an evaluation into its encoded form.
func Build(evaluation *models.Evaluation, precision int) Document {
	rows := make([]Row, len(evaluation.Results))
	for i, r := range evaluation.Results {
		odds := "-"
		if r.FairOdds.IsPositive() {
			odds = r.FairOdds.StringFixed(2)
		}
		rows[i] = Row{
			Index:       i,
			ID:          r.Runner.ID.String(),
			Label:       r.Runner.Label,
			Weight:      Fixed(r.Runner.Weight, 2),
			Probability: Fixed(r.Probability, precision),
			FairOdds:    odds,
		}
	}

	return Document{
		Runners:     evaluation.Runners,
		Subsets:     evaluation.Subsets,
		CacheHit:    evaluation.CacheHit,
		Total:       Fixed(evaluation.Total(), precision),
		EvaluatedAt: evaluation.EvaluatedAt.Format(time.RFC3339),
		Rows:        rows,
	}
}

// Render writes evaluation to w in the requested format.
func Render(w io.Writer, evaluation *models.Evaluation, format Format, precision int) error {
	doc := Build(evaluation, precision)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		return renderText(w, doc)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(w io.Writer, doc Document) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tRunner\tWeight\tP(last)\tFair odds\t")
	for _, row := range doc.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", row.Index, row.Label, row.Weight, row.Probability, row.FairOdds)
	}
	fmt.Fprintf(tw, "\t\t\t%s\t\t\n", doc.Total)
	if err := tw.Flush(); err != nil {
		return err
	}

	noun := "runners"
	if doc.Runners == 1 {
		noun = "runner"
	}
	_, err := fmt.Fprintf(w, "%d %s\n", doc.Runners, noun)
	return err
}
