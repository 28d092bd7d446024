package api

import (
	"fmt"
	"io"
	"strconv"
)

type TestStatus string

const (
	TestStatusPass TestStatus = "PASS"
	TestStatusFail TestStatus = "FAIL"
	TestStatusSkip TestStatus = "SKIP"
)

// TestRecord is the outcome of one passed or failed test.
type TestRecord struct {
	Name   string     `json:"name" yaml:"name"`
	Suite  string     `json:"suite" yaml:"suite"`
	Status TestStatus `json:"status" yaml:"status"`
	// ExecutionTime in seconds, millisecond resolution.
	ExecutionTime float64 `json:"execution_time" yaml:"execution_time"`
	Message       string  `json:"message" yaml:"message"`
}

// Statistics are the counters self-reported by the document. They are not
// reconciled with the test records.
type Statistics struct {
	Pass int `json:"pass" yaml:"pass"`
	Fail int `json:"fail" yaml:"fail"`
	Skip int `json:"skip" yaml:"skip"`
}

// Summary is the result of a report. Total is Pass+Fail, skipped tests are
// not counted.
type Summary struct {
	PassedTests        []TestRecord `json:"passedTests" yaml:"passedTests"`
	FailedTests        []TestRecord `json:"failedTests" yaml:"failedTests"`
	Statistics         Statistics   `json:"statistics" yaml:"statistics"`
	Total              int          `json:"total" yaml:"total"`
	PassPercentage     float64      `json:"passPercentage" yaml:"passPercentage"`
	TotalExecutionTime float64      `json:"totalExecutionTime" yaml:"totalExecutionTime"`
}

// SummarizeReader parses a report from r and summarizes it.
func SummarizeReader(r io.Reader, opts ...Option) (*Summary, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return nil, err
	}
	return Summarize(doc, opts...)
}

// Summarize builds the Summary of a parsed document. Tests with a status other
// than PASS or FAIL are left out of the records and of the execution time.
// TotalExecutionTime is the sum of the passed records plus the sum of the
// failed records.
func Summarize(doc *Document, opts ...Option) (*Summary, error) {
	if doc == nil {
		return nil, newParseError("document", "", nil)
	}
	o := newOptions(opts)

	stats, err := doc.Statistics.statistics()
	if err != nil {
		return nil, err
	}
	o.observer.Debugf("statistics: pass=%d fail=%d skip=%d", stats.Pass, stats.Fail, stats.Skip)

	passed := []TestRecord{}
	failed := []TestRecord{}
	var passedSum, failedSum float64
	for i := range doc.Tests {
		node := &doc.Tests[i]
		if node.Status == nil {
			return nil, newParseError("status", node.Name, nil)
		}

		status := TestStatus(node.Status.Status)
		if status != TestStatusPass && status != TestStatusFail {
			o.observer.Debugf("ignoring test %q in suite %q with status %q", node.Name, node.Suite, node.Status.Status)
			continue
		}

		ms, err := elapsedMilliseconds(node.Status.StartTime, node.Status.EndTime)
		if err != nil {
			return nil, fmt.Errorf("test %q: %w", node.Name, err)
		}

		record := TestRecord{
			Name:          node.Name,
			Suite:         node.Suite,
			Status:        status,
			ExecutionTime: millisecondsToSeconds(ms),
			Message:       node.Status.Message,
		}
		if status == TestStatusPass {
			passed = append(passed, record)
			passedSum += record.ExecutionTime
		} else {
			failed = append(failed, record)
			failedSum += record.ExecutionTime
		}
	}
	o.observer.Debugf("test records: passed=%d failed=%d", len(passed), len(failed))

	passPercentage, err := PassPercentage(stats.Pass, stats.Fail)
	if err != nil {
		return nil, err
	}

	return &Summary{
		PassedTests:        passed,
		FailedTests:        failed,
		Statistics:         stats,
		Total:              stats.Pass + stats.Fail,
		PassPercentage:     passPercentage,
		TotalExecutionTime: passedSum + failedSum,
	}, nil
}

// PassPercentage is 100*pass/(pass+fail) rounded half-up to two decimals.
// Skipped tests are not part of the denominator.
func PassPercentage(pass, fail int) (float64, error) {
	if pass+fail == 0 {
		return 0, ErrNoTestsFound
	}
	return RoundPercentage(pass, pass+fail), nil
}

// RoundPercentage returns 100*part/whole rounded half-up to two decimals,
// or 0 when whole is not positive. The rounding happens on integer basis
// points so results like 100.00 are exact.
func RoundPercentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	w := int64(whole)
	basisPoints := (int64(part)*20000 + w) / (2 * w)
	return float64(basisPoints) / 100
}

func (s *StatisticsNode) statistics() (Statistics, error) {
	if s == nil {
		return Statistics{}, newParseError("statistics", "", nil)
	}
	if s.Total == nil || len(s.Total.Stats) == 0 {
		return Statistics{}, newParseError("statistics/total/stat", "", nil)
	}
	stat := s.Total.Stats[0]

	pass, err := parseCount("stat@pass", stat.Pass)
	if err != nil {
		return Statistics{}, err
	}
	fail, err := parseCount("stat@fail", stat.Fail)
	if err != nil {
		return Statistics{}, err
	}
	skip := 0
	// reports written before skip support carry no skip attribute
	if stat.Skip != "" {
		skip, err = parseCount("stat@skip", stat.Skip)
		if err != nil {
			return Statistics{}, err
		}
	}
	return Statistics{Pass: pass, Fail: fail, Skip: skip}, nil
}

func parseCount(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, newParseError(field, value, err)
	}
	if n < 0 {
		return 0, newParseError(field, value, fmt.Errorf("negative count"))
	}
	return n, nil
}
