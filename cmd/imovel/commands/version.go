package commands

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
)

// BuildInfo carries the values injected with -ldflags
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func versionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imovel version %s\n", info.Version)

			bi, ok := debug.ReadBuildInfo()
			if !ok {
				return
			}

			var vcsRevision, vcsTime, vcsModified string
			for _, setting := range bi.Settings {
				switch setting.Key {
				case "vcs.revision":
					vcsRevision = setting.Value
				case "vcs.time":
					vcsTime = setting.Value
				case "vcs.modified":
					vcsModified = setting.Value
				}
			}

			if info.Commit != "unknown" && info.Commit != "" {
				fmt.Fprintf(out, "commit: %s\n", info.Commit)
			} else if vcsRevision != "" {
				if len(vcsRevision) > 12 {
					vcsRevision = vcsRevision[:12]
				}
				fmt.Fprintf(out, "commit: %s\n", vcsRevision)
			}

			if info.Date != "unknown" && info.Date != "" {
				fmt.Fprintf(out, "built: %s\n", info.Date)
			} else if vcsTime != "" {
				if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
					fmt.Fprintf(out, "commit date: %s\n", t.Format("2006-01-02 15:04:05 MST"))
				}
			}

			if vcsModified == "true" {
				fmt.Fprintln(out, "modified: true (uncommitted changes)")
			}

			fmt.Fprintf(out, "go: %s\n", bi.GoVersion)
		},
	}
}
