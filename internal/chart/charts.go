package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	log "github.com/sirupsen/logrus"

	"github.com/robotsummary/robot-summary/pkg/api"
)

const (
	ChartFileName = "robot-summary-chart.html"

	colorPassed  = "#2da44e"
	colorFailed  = "#cf222e"
	colorSkipped = "#bf8700"
)

// NewSummaryPage create the page object holding the outcome split and the
// slowest tests.
func NewSummaryPage(summary *api.Summary, slowest []api.TestRecord) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Robot Results Summary"
	page.AddCharts(NewOutcomePie(summary))
	if len(slowest) > 0 {
		page.AddCharts(NewSlowestBar(slowest))
	}
	return page
}

// NewOutcomePie plots the passed, failed and skipped counters.
func NewOutcomePie(summary *api.Summary) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Robot Results Summary",
			Subtitle: fmt.Sprintf("Pass%%: %.2f (skipped tests excluded)", summary.PassPercentage),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item"}),
	)

	stats := summary.Statistics
	data := []opts.PieData{
		{Name: "Passed", Value: stats.Pass, ItemStyle: &opts.ItemStyle{Color: colorPassed}},
		{Name: "Failed", Value: stats.Fail, ItemStyle: &opts.ItemStyle{Color: colorFailed}},
		{Name: "Skipped", Value: stats.Skip, ItemStyle: &opts.ItemStyle{Color: colorSkipped}},
	}
	pie.AddSeries("outcome", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: true, Formatter: "{b}: {c}"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		)
	return pie
}

// NewSlowestBar plots the execution time of the given tests.
func NewSlowestBar(records []api.TestRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Slowest tests",
			Subtitle: "execution time in seconds",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)

	names := make([]string, 0, len(records))
	data := make([]opts.BarData, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
		color := colorPassed
		if rec.Status == api.TestStatusFail {
			color = colorFailed
		}
		data = append(data, opts.BarData{
			Name:      rec.Suite,
			Value:     rec.ExecutionTime,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}
	bar.SetXAxis(names).AddSeries("execution time", data)
	return bar
}

// SaveSummaryPage Create HTML chart file in a given path.
func SaveSummaryPage(page *components.Page, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	log.Debugf("Rendering chart page to %s", path)
	return RenderPage(page, f)
}

func RenderPage(page *components.Page, w io.Writer) error {
	return page.Render(w)
}
