package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudpeel/wafsync/internal/message"
	"github.com/cloudpeel/wafsync/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wafsync",
	Long:  `All software has versions. This is wafsync's`,
	Run: func(cmd *cobra.Command, args []string) {
		message.Info("%s", version.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
