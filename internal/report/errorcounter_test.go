package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/utils/ptr"

	"github.com/robotsummary/robot-summary/pkg/api"
)

func TestNewFailureCounter(t *testing.T) {
	summary := loadSummary(t, "output-57.xml")

	got := NewFailureCounter(summary.FailedTests, FailurePatterns)
	assert.Equal(t, ErrorCounter{
		`(?i)timeout|timed out`: 1,
		`not visible`:           1,
		`Expected`:              1,
		`!=`:                    1,
		"total":                 4,
	}, got)
}

func TestNewErrorCounter(t *testing.T) {
	tests := []struct {
		name    string
		buf     *string
		pattern []string
		want    ErrorCounter
	}{
		{
			name:    "no match",
			buf:     ptr.To("all good"),
			pattern: FailurePatterns,
			want:    nil,
		},
		{
			name:    "generic error pattern",
			buf:     ptr.To("error one\nerror two\nConnection refused"),
			pattern: FailurePatterns,
			want:    ErrorCounter{`error`: 2, `Connection refused`: 1, "total": 3},
		},
		{
			name:    "case insensitive timeout",
			buf:     ptr.To("TIMEOUT reached\nrequest timed out"),
			pattern: []string{`(?i)timeout|timed out`},
			want:    ErrorCounter{`(?i)timeout|timed out`: 2, "total": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewErrorCounter(tt.buf, tt.pattern))
		})
	}
}

func TestNewErrorCounterKeepsPatterns(t *testing.T) {
	pattern := make([]string, 1, 4)
	pattern[0] = `not found`
	_ = NewErrorCounter(ptr.To("not found"), pattern)
	assert.Equal(t, []string{`not found`}, pattern)
	assert.Equal(t, "", pattern[:2][1])
}

func TestNewFailureCounterEmpty(t *testing.T) {
	assert.Nil(t, NewFailureCounter([]api.TestRecord{}, FailurePatterns))
}

func TestMergeErrorCounters(t *testing.T) {
	ec1 := &ErrorCounter{`not found`: 1, "total": 1}
	ec2 := &ErrorCounter{`not found`: 2, `Traceback`: 1, "total": 3}

	assert.Equal(t, &ErrorCounter{`not found`: 3, `Traceback`: 1, "total": 4}, MergeErrorCounters(ec1, ec2))
	assert.Equal(t, ec1, MergeErrorCounters(ec1, nil))
	assert.Equal(t, ec2, MergeErrorCounters(nil, ec2))
	assert.Equal(t, &ErrorCounter{}, MergeErrorCounters(nil, nil))
}
