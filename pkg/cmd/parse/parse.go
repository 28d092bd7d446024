package parse

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robotsummary/robot-summary/internal/report"
	"github.com/robotsummary/robot-summary/pkg/api"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type parseInput struct {
	output     string
	skipPassed bool
	skipFailed bool
}

func NewCmdParse() *cobra.Command {
	data := parseInput{}
	cmd := &cobra.Command{
		Use:     "parse report-path [report-path...]",
		Example: "robot-summary parse ./results/output.xml --output json",
		Short:   "Parse Robot Framework reports and print the summary.",
		Args:    cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := parseRun(cmd.OutOrStdout(), &data, args); err != nil {
				log.Error(errors.Wrap(err, "could not parse report"))
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&data.output, "output", "o", outputText, "Output format: text, json or yaml.")
	cmd.Flags().BoolVar(&data.skipPassed, "skip-passed", false, "Skip printing on stdout the passed test names.")
	cmd.Flags().BoolVar(&data.skipFailed, "skip-failed", false, "Skip printing on stdout the failed test names.")
	return cmd
}

func parseRun(w io.Writer, input *parseInput, paths []string) error {
	switch input.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unsupported output format %q", input.output)
	}

	var merged *report.ErrorCounter
	for _, path := range paths {
		summary, source, err := report.ReadSummary(path, api.WithObserver(log.StandardLogger()))
		if err != nil {
			return errors.Wrapf(err, "unable to read %s", path)
		}
		re := report.NewReport(summary, source, "", nil)
		if err := show(w, input, re); err != nil {
			return err
		}
		merged = report.MergeErrorCounters(merged, &re.ErrorCounters)
	}

	if len(paths) > 1 && input.output == outputText {
		fmt.Fprintf(w, "\n#> Error counters (%d reports):\n", len(paths))
		showErrorCounters(w, *merged)
	}
	return nil
}

func show(w io.Writer, input *parseInput, re *report.Report) error {
	switch input.output {
	case outputJSON:
		out, err := re.ShowJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
		return nil
	case outputYAML:
		out, err := re.ShowYAML()
		if err != nil {
			return err
		}
		fmt.Fprint(w, "---\n"+out)
		return nil
	}

	summary := re.Summary
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "- File: %s\n", re.Source)
	fmt.Fprintf(w, "- Total: %d\n", summary.Total)
	fmt.Fprintf(w, "- Pass: %d\n", summary.Statistics.Pass)
	fmt.Fprintf(w, "- Failures: %d\n", summary.Statistics.Fail)
	fmt.Fprintf(w, "- Skipped: %d\n", summary.Statistics.Skip)
	fmt.Fprintf(w, "- Pass%%: %.2f\n", summary.PassPercentage)
	fmt.Fprintf(w, "- Pass%% (with skipped): %.2f\n", re.PassPercentageWithSkip)
	fmt.Fprintf(w, "- Execution time: %.3fs\n", summary.TotalExecutionTime)

	if ds := re.Durations; ds != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Durations (seconds):")
		tbWriter := tabwriter.NewWriter(w, 0, 8, 1, '\t', tabwriter.AlignRight)
		fmt.Fprintf(tbWriter, " min\t mean\t median\t p90\t p99\t max\t stddev\n")
		fmt.Fprintf(tbWriter, " %.3f\t %.3f\t %.3f\t %.3f\t %.3f\t %.3f\t %.3f\n", ds.Min, ds.Mean, ds.Median, ds.P90, ds.P99, ds.Max, ds.StdDev)
		tbWriter.Flush()
	}

	if !input.skipPassed {
		fmt.Fprintf(w, "\n#> Passed tests (%d): \n%s\n", len(summary.PassedTests), testNames(summary.PassedTests))
	}
	if !input.skipFailed {
		fmt.Fprintf(w, "\n#> Failed tests (%d): \n%s\n", len(summary.FailedTests), testNames(summary.FailedTests))
		if len(re.ErrorCounters) > 0 {
			fmt.Fprintln(w, "\n#> Error counters:")
			showErrorCounters(w, re.ErrorCounters)
		}
	}
	return nil
}

func testNames(records []api.TestRecord) string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, fmt.Sprintf("%s / %s (%.3fs)", rec.Suite, rec.Name, rec.ExecutionTime))
	}
	return strings.Join(names, "\n")
}

func showErrorCounters(w io.Writer, ec report.ErrorCounter) {
	tbWriter := tabwriter.NewWriter(w, 0, 8, 1, '\t', 0)
	for _, pattern := range append(append([]string{}, report.FailurePatterns...), "error", "total") {
		if cnt, ok := ec[pattern]; ok {
			fmt.Fprintf(tbWriter, " %s\t%d\n", pattern, cnt)
		}
	}
	tbWriter.Flush()
}
