package summarize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robotsummary/robot-summary/internal/github"
	"github.com/robotsummary/robot-summary/internal/metrics"
	"github.com/robotsummary/robot-summary/internal/report"
	"github.com/robotsummary/robot-summary/internal/storage"
	"github.com/robotsummary/robot-summary/pkg/api"
)

// ErrTestsFailed is returned when the report holds failed tests and the run
// is configured to fail on them.
var ErrTestsFailed = errors.New("Robot tests failed. Please check the summary for more details")

// Input is the configuration of a summarize run.
type Input struct {
	ReportPath     string
	SHA            string
	Token          string
	PullRequestID  int
	Repository     string
	APIURL         string
	StepSummary    string
	StepOutput     string
	SaveTo         string
	FailOnFailures bool

	Publish    storage.Config
	PublishKey string
}

type stringFlag struct {
	name  string
	def   string
	usage string
}

var stringFlags = []stringFlag{
	{name: "report-path", usage: "Directory holding output.xml (or output.xml.xz), or the report file itself. Required."},
	{name: "sha", usage: "Commit SHA the report belongs to. Required."},
	{name: "gh-access-token", usage: "Token used to comment on the pull request."},
	{name: "pull-request-id", usage: "Pull request number to comment on. The comment is skipped when empty."},
	{name: "repository", usage: "Repository slug owner/repo."},
	{name: "api-url", def: github.DefaultAPIURL, usage: "GitHub REST API URL."},
	{name: "step-summary", usage: "Job summary file the markdown is appended to."},
	{name: "step-output", usage: "Step output file."},
	{name: "save-to", usage: "Save the report artifacts (json, yaml, chart, sheet) to this directory."},
	{name: "bucket", usage: "Publish robot-summary.json to this S3 bucket. Requires --save-to."},
	{name: "region", usage: "Region of the S3 bucket."},
	{name: "key", usage: "Object key of the published summary, its last path element must be robot-summary.json."},
}

func NewCmdSummarize() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "summarize",
		Example: "robot-summary summarize --report-path ./results --sha $GITHUB_SHA",
		Short:   "Summarize a Robot Framework report in the GitHub Actions job.",
		Long: "Summarize a Robot Framework output.xml: log the results, append the job summary, " +
			"write the step outputs, comment on the pull request and fail the step when tests failed.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		Run: func(cmd *cobra.Command, args []string) {
			input, err := NewInput(viper.GetViper())
			if err != nil {
				log.Error(errors.Wrap(err, "invalid input"))
				os.Exit(1)
			}
			if err := Run(cmd.Context(), input); err != nil {
				if errors.Is(err, ErrTestsFailed) {
					log.Error(err)
				} else {
					log.Error(errors.Wrapf(err, "could not summarize report %s", input.ReportPath))
				}
				os.Exit(1)
			}
		},
		Args: cobra.NoArgs,
	}

	for _, f := range stringFlags {
		cmd.Flags().String(f.name, f.def, f.usage)
	}

	cmd.Flags().Bool("fail-on-failures", true, "Exit with failure status when the report holds failed tests.")
	cmd.Flags().Bool("dry-run", false, "Skip the S3 upload, only log the object it would create.")

	return cmd
}

// NewInput reads and validates the run configuration.
func NewInput(v *viper.Viper) (*Input, error) {
	input := &Input{
		ReportPath:     strings.TrimSpace(v.GetString("report-path")),
		SHA:            strings.TrimSpace(v.GetString("sha")),
		Token:          v.GetString("gh-access-token"),
		Repository:     v.GetString("repository"),
		APIURL:         v.GetString("api-url"),
		StepSummary:    v.GetString("step-summary"),
		StepOutput:     v.GetString("step-output"),
		SaveTo:         v.GetString("save-to"),
		FailOnFailures: v.GetBool("fail-on-failures"),
		Publish: storage.Config{
			Bucket: v.GetString("bucket"),
			Region: v.GetString("region"),
			DryRun: v.GetBool("dry-run"),
		},
		PublishKey: v.GetString("key"),
	}
	if input.ReportPath == "" {
		return nil, fmt.Errorf("report-path is required")
	}
	if input.SHA == "" {
		return nil, fmt.Errorf("sha is required")
	}
	if input.APIURL == "" {
		input.APIURL = github.DefaultAPIURL
	}

	if pr := strings.TrimSpace(v.GetString("pull-request-id")); pr != "" {
		n, err := strconv.Atoi(pr)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid pull-request-id %q", pr)
		}
		input.PullRequestID = n
	}
	if input.Publish.Bucket != "" && input.SaveTo == "" {
		return nil, fmt.Errorf("bucket requires save-to")
	}
	return input, nil
}

// Run summarizes the report and publishes the results to the job. Reading
// errors abort the run; job summary, comment and artifact errors are logged.
// ErrTestsFailed is returned when tests failed and FailOnFailures is set.
func Run(ctx context.Context, input *Input) error {
	if ctx == nil {
		ctx = context.Background()
	}
	timers := metrics.NewTimers()
	return run(ctx, input, &timers)
}

func run(ctx context.Context, input *Input, timers *metrics.Timers) error {
	timers.Add("summarize-total")

	log.Debug("Generating Robot report started")
	timers.Set("read-report")
	summary, source, err := report.ReadSummary(input.ReportPath, api.WithObserver(log.StandardLogger()))
	if err != nil {
		return err
	}
	log.Info("Generating Robot report completed")
	logSummary(summary)

	timers.Set("publish-job")
	view := report.NewView(summary, input.SHA)
	if input.StepSummary != "" {
		if err := writeJobSummary(input.StepSummary, view); err != nil {
			log.Warnf("Unable to write the job summary: %v", err)
		}
	} else {
		log.Debug("Step summary file is not set, skipping job summary")
	}

	if input.StepOutput != "" {
		if err := github.WriteOutputs(input.StepOutput, Outputs(summary)); err != nil {
			log.Warnf("Unable to write the step outputs: %v", err)
		}
	}

	if input.PullRequestID > 0 && input.Token != "" {
		if err := postComment(ctx, input, view); err != nil {
			log.Warnf("Unable to comment on pull request %d: %v", input.PullRequestID, err)
		}
	}

	if input.SaveTo != "" {
		re := report.NewReport(summary, source, input.SHA, timers)
		if err := re.SaveResults(input.SaveTo); err != nil {
			log.Warnf("Unable to save the report artifacts: %v", err)
		} else if input.Publish.Bucket != "" {
			timers.Set("publish-storage")
			if err := publishSummary(ctx, input); err != nil {
				log.Warnf("Unable to publish the summary: %v", err)
			}
		}
	}
	// closes the last lap and the total.
	timers.Set("summarize-total")
	for name, t := range timers.Timers {
		log.Debugf("Timer %s: %.3fs", name, t.Total)
	}

	if summary.Statistics.Fail > 0 && input.FailOnFailures {
		return ErrTestsFailed
	}
	return nil
}

func logSummary(summary *api.Summary) {
	log.Infof("Total tests: %d", summary.Total)
	log.Infof("Passed: %d", summary.Statistics.Pass)
	log.Infof("Failed: %d", summary.Statistics.Fail)
	log.Infof("Skipped: %d", summary.Statistics.Skip)
	log.Infof("Pass percentage: %.2f", summary.PassPercentage)
	log.Infof("Total execution time: %.3f", summary.TotalExecutionTime)
	log.Info("Failed tests:")
	for _, test := range summary.FailedTests {
		log.Infof("Test: %s", test.Name)
		log.Infof("Execution time: %.3f", test.ExecutionTime)
		log.Infof("Message: %s", test.Message)
	}
}

// Outputs are the step outputs of a summary.
func Outputs(summary *api.Summary) map[string]string {
	return map[string]string{
		"total":                strconv.Itoa(summary.Total),
		"passed":               strconv.Itoa(summary.Statistics.Pass),
		"failed":               strconv.Itoa(summary.Statistics.Fail),
		"skipped":              strconv.Itoa(summary.Statistics.Skip),
		"pass_percentage":      strconv.FormatFloat(summary.PassPercentage, 'f', 2, 64),
		"total_execution_time": strconv.FormatFloat(summary.TotalExecutionTime, 'f', -1, 64),
	}
}

func writeJobSummary(path string, view report.View) error {
	markdown, err := report.Render(report.TemplateJobSummary, view)
	if err != nil {
		return err
	}
	return github.AppendStepSummary(path, markdown)
}

func postComment(ctx context.Context, input *Input, view report.View) error {
	body, err := report.Render(report.TemplateComment, view)
	if err != nil {
		return err
	}
	client := github.NewCommentClient(input.APIURL, input.Token, nil)
	url, err := client.CreateComment(ctx, input.Repository, input.PullRequestID, body)
	if err != nil {
		return err
	}
	log.Infof("Comment created on pull request %d: %s", input.PullRequestID, url)
	return nil
}

func publishSummary(ctx context.Context, input *Input) error {
	uploader, err := storage.NewUploader(input.Publish)
	if err != nil {
		return err
	}
	meta := map[string]string{"sha": input.SHA}
	if input.PullRequestID > 0 {
		meta["pullRequest"] = strconv.Itoa(input.PullRequestID)
	}
	_, err = uploader.Upload(ctx, filepath.Join(input.SaveTo, report.ReportFileNameJSON), input.PublishKey, meta)
	return err
}
