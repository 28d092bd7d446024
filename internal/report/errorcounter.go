package report

import (
	"regexp"
	"strings"

	"github.com/robotsummary/robot-summary/pkg/api"
)

// ErrorCounter is a map to handle a generic error counter, indexed by error pattern.
type ErrorCounter map[string]int

func NewErrorCounter(buf *string, pattern []string) ErrorCounter {
	total := 0
	counters := make(ErrorCounter, len(pattern)+2)

	incError := func(err string, cnt int) {
		if _, ok := counters[err]; !ok {
			counters[err] = 0
		}
		counters[err] += cnt
		total += cnt
	}

	patterns := append(append([]string{}, pattern...), `error`)
	for _, errName := range patterns {
		reErr := regexp.MustCompile(errName)
		if matches := reErr.FindAllStringIndex(*buf, -1); len(matches) != 0 {
			incError(errName, len(matches))
		}
	}

	if total == 0 {
		return nil
	}
	counters["total"] = total
	return counters
}

// NewFailureCounter counts the patterns found in the messages of failed tests.
func NewFailureCounter(failed []api.TestRecord, pattern []string) ErrorCounter {
	messages := make([]string, 0, len(failed))
	for _, rec := range failed {
		messages = append(messages, rec.Message)
	}
	buf := strings.Join(messages, "\n")
	return NewErrorCounter(&buf, pattern)
}

func MergeErrorCounters(ec1, ec2 *ErrorCounter) *ErrorCounter {
	new := make(ErrorCounter, len(FailurePatterns))
	if ec1 == nil {
		if ec2 == nil {
			return &new
		}
		return ec2
	}
	if ec2 == nil {
		return ec1
	}
	for kerr, errName := range *ec1 {
		new[kerr] += errName
	}
	for kerr, errName := range *ec2 {
		new[kerr] += errName
	}
	return &new
}
