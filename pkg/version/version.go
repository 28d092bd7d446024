// Package version contains all identifiable versioning info for
// describing the robot-summary project.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	projectName = "robot-summary"
	version     = "unknown"
	commit      = "unknown"
)

var Version = VersionContext{
	Name:    projectName,
	Version: version,
	Commit:  commit,
}

type VersionContext struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (vc *VersionContext) String() string {
	return fmt.Sprintf("robot-summary: %s+%s", vc.Version, vc.Commit)
}

func (vc *VersionContext) StringRuntime() string {
	return fmt.Sprintf("Go: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print robot-summary version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version.String())
			fmt.Fprintln(cmd.OutOrStdout(), Version.StringRuntime())
		},
	}
}
