package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robotsummary/robot-summary/pkg/cmd/parse"
	"github.com/robotsummary/robot-summary/pkg/cmd/publish"
	"github.com/robotsummary/robot-summary/pkg/cmd/summarize"
	"github.com/robotsummary/robot-summary/pkg/version"
)

const logFile = "robot-summary.log"

// envBindings maps viper keys to the variables read after the GitHub Actions
// input variable (INPUT_<KEY>).
var envBindings = map[string][]string{
	"report-path":      nil,
	"sha":              {"GITHUB_SHA"},
	"gh-access-token":  {"GITHUB_TOKEN"},
	"pull-request-id":  nil,
	"repository":       {"GITHUB_REPOSITORY"},
	"api-url":          {"GITHUB_API_URL"},
	"step-summary":     {"GITHUB_STEP_SUMMARY"},
	"step-output":      {"GITHUB_OUTPUT"},
	"save-to":          nil,
	"fail-on-failures": nil,
	"bucket":           {"ROBOT_SUMMARY_BUCKET"},
	"region":           {"ROBOT_SUMMARY_REGION"},
	"key":              nil,
	"dry-run":          nil,
	"log-level":        {"ROBOT_SUMMARY_LOG_LEVEL"},
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "robot-summary",
	Short: "Robot Framework results summary",
	Long:  `robot-summary reads a Robot Framework output.xml and reports the results to the GitHub Actions job, the pull request and the artifacts storage`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error

		// Validate logging level
		loglevel := viper.GetString("log-level")
		logrusLevel, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)

		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})

		log.SetOutput(os.Stdout)
		fdLog, err := os.OpenFile(logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Errorf("error opening file %s: %v", logFile, err)
		} else {
			log.AddHook(&logwriter.Hook{
				Writer: fdLog,
				LogLevels: []log.Level{
					log.PanicLevel,
					log.FatalLevel,
					log.ErrorLevel,
					log.WarnLevel,
					log.InfoLevel,
					log.DebugLevel,
				},
			})
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initBindFlag(flag string) {
	err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		log.Warnf("Unable to bind flag %s\n", flag)
	}
}

// inputEnv is the variable GitHub Actions sets for an action input.
func inputEnv(key string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func bindEnvs(v *viper.Viper) {
	for key, extra := range envBindings {
		env := append([]string{key, inputEnv(key)}, extra...)
		if err := v.BindEnv(env...); err != nil {
			log.Warnf("Unable to bind env for %s: %v", key, err)
		}
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "logging level")
	initBindFlag("log-level")

	// Link in child commands
	rootCmd.AddCommand(summarize.NewCmdSummarize())
	rootCmd.AddCommand(parse.NewCmdParse())
	rootCmd.AddCommand(publish.NewCmdPublish())
	rootCmd.AddCommand(version.NewCmdVersion())
}

// initConfig reads in ENV variables if set.
func initConfig() {
	bindEnvs(viper.GetViper())
}
