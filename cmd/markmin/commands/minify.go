package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/markmin/internal/logger"
	"github.com/jmylchreest/markmin/internal/output"
	"github.com/jmylchreest/markmin/pkg/markup"
	"github.com/jmylchreest/markmin/pkg/verify"
)

// errVerifyFailed is returned when --verify finds a structural difference.
var errVerifyFailed = errors.New("verification failed")

// minifyReport is what --report writes.
type minifyReport struct {
	Source   string           `json:"source" yaml:"source"`
	Title    string           `json:"title,omitempty" yaml:"title,omitempty"`
	Output   string           `json:"output" yaml:"output"`
	Stats    *markup.Stats    `json:"stats" yaml:"stats"`
	Warnings []markup.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Verify   *verify.Report   `json:"verify,omitempty" yaml:"verify,omitempty"`
}

func (r *minifyReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s\n", r.Source)
	if r.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", r.Title)
	}
	fmt.Fprintf(&sb, "Output: %s\n", r.Output)
	sb.WriteString(r.Stats.String())
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "Warning: %s\n", w)
	}
	if r.Verify != nil {
		sb.WriteString(r.Verify.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

var minifyCmd = &cobra.Command{
	Use:   "minify [file|url|-]",
	Short: "Minify an HTML document",
	Long: `Minify an HTML document read from a file, a URL or stdin.

Options come from the chosen preset, then the config file, then MARKMIN_*
environment variables, then flags. Only flags you set override the preset.

Examples:
  # Minify a file in place of another
  markmin minify page.html -o page.min.html

  # Keep license comments and preserve <code> as well as <pre>
  markmin minify page.html --keep-marker license --preserve-tag pre,code

  # Machine-readable stats on stderr
  markmin minify page.html --report json > page.min.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMinify,
}

func init() {
	rootCmd.AddCommand(minifyCmd)

	addMinifyFlags(minifyCmd)
	addInputFlags(minifyCmd)

	flags := minifyCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.Bool("stats", false, "print a size and timing summary to stderr")
	flags.String("report", "", "write a report: text, json, jsonl, yaml")
	flags.Bool("verify", false, "check that the output parses to the same document")
}

func runMinify(cmd *cobra.Command, args []string) error {
	applyFlags(cmd)
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	flags := cmd.Flags()
	outPath, _ := flags.GetString("output")
	showStats, _ := flags.GetBool("stats")
	reportFormat, _ := flags.GetString("report")
	doVerify, _ := flags.GetBool("verify")

	var format output.Format
	if reportFormat != "" {
		if format, err = output.ParseFormat(reportFormat); err != nil {
			logError("%v", err)
			return err
		}
		if format == output.FormatTable {
			err = fmt.Errorf("report format must be text, json, jsonl or yaml")
			logError("%v", err)
			return err
		}
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

	report, err := minifyDocument(ctx, doc, cfg, doVerify)
	if err != nil {
		logError("%v", err)
		return err
	}
	report.Output = outPath
	if report.Output == "" {
		report.Output = "stdout"
	}

	if err := writeDocument(cmd, outPath, report.content); err != nil {
		logError("writing output: %v", err)
		return err
	}

	if showStats {
		logInfo("%s", strings.TrimRight(report.Stats.String(), "\n"))
	}
	if format != "" {
		// Reports go to stdout only when the document does not.
		w := cmd.ErrOrStderr()
		if outPath != "" && outPath != "-" {
			w = cmd.OutOrStdout()
		}
		if err := writeReport(w, format, &report.minifyReport); err != nil {
			logError("writing report: %v", err)
			return err
		}
	}

	if report.Verify != nil && !report.Verify.OK() {
		logError("%s", report.Verify)
		return errVerifyFailed
	}
	return nil
}

// minifyResult is a report plus the minified document.
type minifyResult struct {
	minifyReport
	content string
}

func minifyDocument(ctx context.Context, doc *document, cfg *markup.Config, doVerify bool) (*minifyResult, error) {
	result := markup.New(cfg).MinifyWithStats(doc.HTML)
	if result.Error != nil {
		return nil, fmt.Errorf("minifying %s: %w", doc.Source, result.Error)
	}
	for _, w := range result.Warnings {
		logger.WarnContext(ctx, "malformed input passed through", "phase", w.Phase, "detail", w.Message, "context", w.Context)
	}
	logger.DebugContext(ctx, "minified",
		"source", doc.Source,
		"input_bytes", result.Stats.InputBytes,
		"output_bytes", result.Stats.OutputBytes,
		"duration", result.Stats.TotalDuration)

	r := &minifyResult{
		minifyReport: minifyReport{
			Source:   doc.Source,
			Title:    doc.Title,
			Stats:    result.Stats,
			Warnings: result.Warnings,
		},
		content: result.Content,
	}

	if doVerify {
		vr, err := verify.Check(doc.HTML, result.Content, cfg.PreserveTags)
		if err != nil {
			return nil, fmt.Errorf("verifying %s: %w", doc.Source, err)
		}
		r.Verify = vr
	}
	return r, nil
}

func writeReport(w io.Writer, format output.Format, report *minifyReport) error {
	ow, err := output.NewWriter(w, format)
	if err != nil {
		return err
	}
	if err := ow.Write(report); err != nil {
		return err
	}
	return ow.Close()
}
