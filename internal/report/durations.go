package report

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/robotsummary/robot-summary/pkg/api"
)

const defaultSlowestTests = 10

// DurationStats describes the execution time, in seconds, of the passed and
// failed tests.
type DurationStats struct {
	Count   int              `json:"count" yaml:"count"`
	Sum     float64          `json:"sum" yaml:"sum"`
	Min     float64          `json:"min" yaml:"min"`
	Max     float64          `json:"max" yaml:"max"`
	Mean    float64          `json:"mean" yaml:"mean"`
	Median  float64          `json:"median" yaml:"median"`
	P90     float64          `json:"p90" yaml:"p90"`
	P99     float64          `json:"p99" yaml:"p99"`
	StdDev  float64          `json:"stddev" yaml:"stddev"`
	Slowest []api.TestRecord `json:"slowest,omitempty" yaml:"slowest,omitempty"`
}

// NewDurationStats computes the distribution of test execution times. It
// returns nil when the summary holds no test records.
func NewDurationStats(summary *api.Summary, slowest int) *DurationStats {
	records := Records(summary)
	if len(records) == 0 {
		return nil
	}

	data := make(stats.Float64Data, 0, len(records))
	for _, rec := range records {
		data = append(data, rec.ExecutionTime)
	}

	round := func(v float64, err error) float64 {
		if err != nil {
			return 0
		}
		r, err := stats.Round(v, 3)
		if err != nil {
			return 0
		}
		return r
	}

	return &DurationStats{
		Count:   len(data),
		Sum:     round(stats.Sum(data)),
		Min:     round(stats.Min(data)),
		Max:     round(stats.Max(data)),
		Mean:    round(stats.Mean(data)),
		Median:  round(stats.Median(data)),
		P90:     round(stats.Percentile(data, 90)),
		P99:     round(stats.Percentile(data, 99)),
		StdDev:  round(stats.StandardDeviationPopulation(data)),
		Slowest: SlowestTests(records, slowest),
	}
}

// Records returns the passed and failed records, passed first.
func Records(summary *api.Summary) []api.TestRecord {
	records := make([]api.TestRecord, 0, len(summary.PassedTests)+len(summary.FailedTests))
	records = append(records, summary.PassedTests...)
	return append(records, summary.FailedTests...)
}

// SlowestTests ranks records by execution time, slowest first, keeping n.
func SlowestTests(records []api.TestRecord, n int) []api.TestRecord {
	if n <= 0 {
		n = defaultSlowestTests
	}
	ranked := make([]api.TestRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ExecutionTime > ranked[j].ExecutionTime
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
