package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/robotsummary/robot-summary/internal/assets"
	"github.com/robotsummary/robot-summary/pkg/api"
)

const (
	TemplateJobSummary = "templates/report/summary.md.tmpl"
	TemplateComment    = "templates/report/comment.md.tmpl"
)

// View is the data rendered in the markdown tables. TotalWithSkip and
// PassPercentageWithSkip count skipped tests, unlike Summary.Total and
// Summary.PassPercentage.
type View struct {
	Statistics             api.Statistics
	TotalWithSkip          int
	PassPercentageWithSkip float64
	FailedTests            []api.TestRecord
	SHA                    string
}

func NewView(summary *api.Summary, sha string) View {
	return View{
		Statistics:             summary.Statistics,
		TotalWithSkip:          TotalWithSkip(summary.Statistics),
		PassPercentageWithSkip: PassPercentageWithSkip(summary.Statistics),
		FailedTests:            summary.FailedTests,
		SHA:                    sha,
	}
}

// TotalWithSkip is pass+fail+skip.
func TotalWithSkip(stats api.Statistics) int {
	return stats.Pass + stats.Fail + stats.Skip
}

// PassPercentageWithSkip is 100*pass/(pass+fail+skip), two decimals.
func PassPercentageWithSkip(stats api.Statistics) float64 {
	return api.RoundPercentage(stats.Pass, TotalWithSkip(stats))
}

// Render executes the embedded template name with view.
func Render(name string, view View) (string, error) {
	raw, err := assets.ReadFile(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"cell": markdownCell,
	}).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("unable to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("unable to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// markdownCell keeps a value inside a single table cell.
func markdownCell(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "|", `\|`)
	return strings.ReplaceAll(value, "\n", "<br>")
}
