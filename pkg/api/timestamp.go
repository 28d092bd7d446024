package api

import (
	"fmt"
	"time"
)

// TimestampLayout is the fixed layout of the status starttime and endtime
// attributes, e.g. "20240101 10:00:02.500".
const TimestampLayout = "20060102 15:04:05.000"

// ParseTimestamp parses a report timestamp. No timezone is carried by the
// report, so the instant is read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	if len(value) != len(TimestampLayout) {
		return time.Time{}, newParseError("timestamp", value, nil)
	}
	ts, err := time.ParseInLocation(TimestampLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, newParseError("timestamp", value, err)
	}
	return ts, nil
}

// ExecutionTime returns the seconds elapsed between start and end, keeping
// millisecond resolution. An end before start is a ParseError.
func ExecutionTime(start, end string) (float64, error) {
	ms, err := elapsedMilliseconds(start, end)
	if err != nil {
		return 0, err
	}
	return millisecondsToSeconds(ms), nil
}

func elapsedMilliseconds(start, end string) (int64, error) {
	startTime, err := ParseTimestamp(start)
	if err != nil {
		return 0, err
	}
	endTime, err := ParseTimestamp(end)
	if err != nil {
		return 0, err
	}
	if endTime.Before(startTime) {
		return 0, newParseError("endtime", end, fmt.Errorf("before starttime %s", start))
	}
	return endTime.Sub(startTime).Milliseconds(), nil
}

func millisecondsToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}
