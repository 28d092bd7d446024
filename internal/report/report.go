package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/robotsummary/robot-summary/internal/chart"
	"github.com/robotsummary/robot-summary/internal/metrics"
	"github.com/robotsummary/robot-summary/internal/sheet"
	"github.com/robotsummary/robot-summary/pkg/api"
)

const (
	ReportFileNameJSON = "robot-summary.json"
	ReportFileNameYAML = "robot-summary.yaml"
)

// Report is the data persisted and published for a run: the summary plus the
// derived counters shown in the job summary.
type Report struct {
	Summary                *api.Summary   `json:"summary" yaml:"summary"`
	TotalWithSkip          int            `json:"totalWithSkip" yaml:"totalWithSkip"`
	PassPercentageWithSkip float64        `json:"passPercentageWithSkip" yaml:"passPercentageWithSkip"`
	Durations              *DurationStats `json:"durations,omitempty" yaml:"durations,omitempty"`
	ErrorCounters          ErrorCounter   `json:"errorCounters,omitempty" yaml:"errorCounters,omitempty"`
	Runtime                *ReportRuntime `json:"runtime" yaml:"runtime"`
	Source                 string         `json:"source,omitempty" yaml:"source,omitempty"`
	SHA                    string         `json:"sha,omitempty" yaml:"sha,omitempty"`
}

type ReportRuntime struct {
	Timers    *metrics.Timers `json:"timers,omitempty" yaml:"timers,omitempty"`
	Generated string          `json:"generated" yaml:"generated"`
}

// NewReport builds the report of a summary read from source.
func NewReport(summary *api.Summary, source, sha string, timers *metrics.Timers) *Report {
	if timers == nil {
		t := metrics.NewTimers()
		timers = &t
	}
	return &Report{
		Summary:                summary,
		TotalWithSkip:          TotalWithSkip(summary.Statistics),
		PassPercentageWithSkip: PassPercentageWithSkip(summary.Statistics),
		Durations:              NewDurationStats(summary, defaultSlowestTests),
		ErrorCounters:          NewFailureCounter(summary.FailedTests, FailurePatterns),
		Runtime: &ReportRuntime{
			Timers:    timers,
			Generated: time.Now().UTC().Format(time.RFC3339),
		},
		Source: source,
		SHA:    sha,
	}
}

// ShowJSON print the raw json in stdout.
func (re *Report) ShowJSON() (string, error) {
	val, err := json.MarshalIndent(re, "", "    ")
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (re *Report) ShowYAML() (string, error) {
	val, err := yaml.Marshal(re)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

// SaveResults persist the report artifacts to the result directory. The
// running lap is closed before the report is serialized, the save lap itself
// is only known in memory.
func (re *Report) SaveResults(path string) error {
	re.Runtime.Timers.Set("report-save/results")

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("unable to create result directory %q: %w", path, err)
	}

	// serialize before going concurrent, the timers are not safe to share.
	dataJSON, err := json.MarshalIndent(re, "", " ")
	if err != nil {
		return fmt.Errorf("unable to process report data %s: %w", ReportFileNameJSON, err)
	}
	dataYAML, err := yaml.Marshal(re)
	if err != nil {
		return fmt.Errorf("unable to process report data %s: %w", ReportFileNameYAML, err)
	}

	var slowest []api.TestRecord
	if re.Durations != nil {
		slowest = re.Durations.Slowest
	}

	var g errgroup.Group
	g.Go(func() error {
		return writeFile(filepath.Join(path, ReportFileNameJSON), dataJSON)
	})
	g.Go(func() error {
		return writeFile(filepath.Join(path, ReportFileNameYAML), dataYAML)
	})
	g.Go(func() error {
		dest := filepath.Join(path, chart.ChartFileName)
		if err := chart.SaveSummaryPage(chart.NewSummaryPage(re.Summary, slowest), dest); err != nil {
			return fmt.Errorf("unable to save %s: %w", dest, err)
		}
		return nil
	})
	g.Go(func() error {
		dest := filepath.Join(path, sheet.FailuresFileName)
		if err := sheet.SaveFailuresIndex(re.Summary, dest); err != nil {
			return fmt.Errorf("unable to save %s: %w", dest, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	re.Runtime.Timers.Add("report-save/results")
	log.Infof("Report artifacts saved to %s", path)
	return nil
}

// ArtifactFiles lists the files written by SaveResults.
func ArtifactFiles() []string {
	return []string{ReportFileNameJSON, ReportFileNameYAML, chart.ChartFileName, sheet.FailuresFileName}
}

func writeFile(dest string, data []byte) error {
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("unable to save %s: %w", dest, err)
	}
	return nil
}
