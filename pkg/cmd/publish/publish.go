package publish

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robotsummary/robot-summary/internal/report"
	"github.com/robotsummary/robot-summary/internal/storage"
)

type publishInput struct {
	file   string
	key    string
	sha    string
	config storage.Config
}

func NewCmdPublish() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "publish robot-summary.json",
		Example: "robot-summary publish ./artifacts/robot-summary.json --bucket my-results --region us-east-1",
		Short:   "Publish a saved summary to a S3 bucket.",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		Run: func(cmd *cobra.Command, args []string) {
			input := newPublishInput(viper.GetViper(), args[0])
			if err := publishResult(cmd, input); err != nil {
				log.Error(errors.Wrapf(err, "could not publish results: %v", args[0]))
				os.Exit(1)
			}
		},
	}

	cmd.Flags().String("bucket", "", "S3 bucket name.")
	cmd.Flags().String("region", "", "S3 bucket region.")
	cmd.Flags().StringP(
		"key", "k", "",
		"Object key to use when uploading the summary to the bucket, when not set the uploads/ path will be prepended to the filename.",
	)
	cmd.Flags().String("sha", "", "Commit SHA stored in the object metadata.")
	cmd.Flags().Bool("dry-run", false, "Skip the upload, only log the object it would create.")
	return cmd
}

func newPublishInput(v *viper.Viper, file string) *publishInput {
	return &publishInput{
		file: file,
		key:  v.GetString("key"),
		sha:  v.GetString("sha"),
		config: storage.Config{
			Bucket: v.GetString("bucket"),
			Region: v.GetString("region"),
			DryRun: v.GetBool("dry-run"),
		},
	}
}

// checkPublishInput validates the file is a saved summary before any client
// is created.
func checkPublishInput(input *publishInput) error {
	if input.config.Bucket == "" || input.config.Region == "" {
		return fmt.Errorf("missing required parameters: bucket and region must be set")
	}
	info, err := os.Stat(input.file)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", input.file, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected the %s file", input.file, report.ReportFileNameJSON)
	}
	_, err = storage.ObjectKey(input.file, input.key)
	return err
}

func publishResult(cmd *cobra.Command, input *publishInput) error {
	log.Info("Publishing the results to storage...")
	if err := checkPublishInput(input); err != nil {
		return err
	}

	uploader, err := storage.NewUploader(input.config)
	if err != nil {
		return err
	}
	meta := map[string]string{}
	if input.sha != "" {
		meta["sha"] = input.sha
	}
	uri, err := uploader.Upload(cmd.Context(), input.file, input.key, meta)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), uri)
	return nil
}
