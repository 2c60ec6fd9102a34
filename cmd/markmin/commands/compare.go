package commands

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/markmin/internal/logger"
	"github.com/jmylchreest/markmin/internal/output"
	"github.com/jmylchreest/markmin/pkg/markup"
	"github.com/jmylchreest/markmin/pkg/transform"
	"github.com/jmylchreest/markmin/pkg/verify"
)

// compareRow is one transformer's result on the compared document.
type compareRow struct {
	Name         string  `json:"name" yaml:"name"`
	Transformer  string  `json:"transformer" yaml:"transformer"`
	InputBytes   int     `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes  int     `json:"output_bytes" yaml:"output_bytes"`
	ReductionPct float64 `json:"reduction_pct" yaml:"reduction_pct"`
	DurationMs   float64 `json:"duration_ms" yaml:"duration_ms"`
	Verified     bool    `json:"verified" yaml:"verified"`
	Problems     int     `json:"problems" yaml:"problems"`
	Error        string  `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r compareRow) Columns() []string {
	return []string{"Transformer", "Output", "Reduce%", "Time", "Verify"}
}

func (r compareRow) Row() []string {
	if r.Error != "" {
		return []string{r.Name, "ERROR", "-", "-", r.Error}
	}
	check := "ok"
	if !r.Verified {
		check = strconv.Itoa(r.Problems) + " problems"
	}
	return []string{
		r.Name,
		strconv.Itoa(r.OutputBytes),
		fmt.Sprintf("%.1f%%", r.ReductionPct),
		(time.Duration(r.DurationMs * float64(time.Millisecond))).Round(time.Microsecond).String(),
		check,
	}
}

// namedTransformer labels a transformer for the comparison table.
type namedTransformer struct {
	name string
	transform.Transformer
}

// comparisonSet returns the transformers compare runs, baseline first. cfg
// is the configured minifier, shown next to the built-in presets.
func comparisonSet(cfg *markup.Config) []namedTransformer {
	return []namedTransformer{
		{"noop", transform.NewNoop()},
		{"markmin (configured)", markup.New(cfg)},
		{"markmin (safe)", markup.New(markup.PresetSafe())},
		{"markmin (default)", markup.New(markup.DefaultConfig())},
		{"markmin (aggressive)", markup.New(markup.PresetAggressive())},
		{"reference", transform.NewReference()},
		{"markmin -> reference", transform.NewChain(markup.New(cfg), transform.NewReference())},
	}
}

// compareTransformers runs every transformer on html and verifies each
// output against the input.
func compareTransformers(html string, set []namedTransformer, preserveTags []string) []compareRow {
	rows := make([]compareRow, 0, len(set))
	for _, t := range set {
		row := compareRow{Name: t.name, Transformer: t.Name(), InputBytes: len(html)}

		start := time.Now()
		out, err := t.Transform(html)
		row.DurationMs = float64(time.Since(start).Microseconds()) / 1000
		if err != nil {
			row.Error = err.Error()
			logger.Warn("transformer failed", "transformer", t.name, "error", err)
			rows = append(rows, row)
			continue
		}

		row.OutputBytes = len(out)
		if len(html) > 0 && len(out) < len(html) {
			row.ReductionPct = float64(len(html)-len(out)) / float64(len(html)) * 100
		}

		report, err := verify.Check(html, out, preserveTags)
		if err != nil {
			row.Error = err.Error()
		} else {
			row.Verified = report.OK()
			row.Problems = len(report.Problems)
			for _, p := range report.Problems {
				logger.Debug("verify problem", "transformer", t.name, "problem", p)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

var compareCmd = &cobra.Command{
	Use:   "compare [file|url|-]",
	Short: "Compare presets and a full HTML minifier on one document",
	Long: `Run every markmin preset, your configured options and a full
parsing HTML minifier (tdewolff/minify) on the same document, and report
output size, reduction, time and whether the output still verifies.

Examples:
  markmin compare page.html
  markmin compare https://example.com --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	addMinifyFlags(compareCmd)
	addInputFlags(compareCmd)
	compareCmd.Flags().StringP("format", "f", "table", "output format: table, json, jsonl, yaml")
}

func runCompare(cmd *cobra.Command, args []string) error {
	applyFlags(cmd)
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		logError("%v", err)
		return err
	}

	cfg, err := settings.MarkupConfig()
	if err != nil {
		logError("%v", err)
		return err
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	doc, err := readDocument(ctx, cmd, arg, settings)
	if err != nil {
		logError("%v", err)
		return err
	}

	rows := compareTransformers(doc.HTML, comparisonSet(cfg), cfg.PreserveTags)

	out := cmd.OutOrStdout()
	if format == output.FormatTable || format == output.FormatText {
		format = output.FormatTable
		fmt.Fprintf(out, "Input: %s (%s)\n\n", doc.Source, humanize.Bytes(uint64(len(doc.HTML))))
	}

	w, err := output.NewWriter(out, format)
	if err != nil {
		logError("%v", err)
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			logError("%v", err)
			return err
		}
	}
	return w.Close()
}
