package github

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// AppendStepSummary appends markdown to the job summary file.
func AppendStepSummary(path, markdown string) error {
	if path == "" {
		return fmt.Errorf("step summary file is not set")
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	return appendFile(path, markdown)
}

// WriteOutputs appends the step outputs as key=value lines, sorted by key.
func WriteOutputs(path string, outputs map[string]string) error {
	if path == "" {
		return fmt.Errorf("step output file is not set")
	}
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		v := outputs[k]
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("output %s must be a single line", k)
		}
		fmt.Fprintf(&sb, "%s=%s\n", k, v)
	}
	return appendFile(path, sb.String())
}

func appendFile(path, content string) error {
	fd, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer fd.Close()

	if _, err := fd.WriteString(content); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}
