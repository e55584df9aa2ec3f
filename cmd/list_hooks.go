package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cloudpeel/wafsync/internal/lifecycle"
)

var listHooksCmd = &cobra.Command{
	Use:   "list-hooks",
	Short: "Display the lifecycle events wafsync handles",
	Run: func(cmd *cobra.Command, args []string) {
		displayHooks()
	},
}

var hookDescriptions = map[string]string{
	lifecycle.BeforePackageFinalize: "annotate the generated template with the REST API id output",
	lifecycle.AfterDeploy:           "reconcile the stage's WAF association with configuration",
}

func displayHooks() {
	bold := color.New(color.Bold)
	if noColorFlag {
		color.NoColor = true
	}

	for _, event := range []string{lifecycle.BeforePackageFinalize, lifecycle.AfterDeploy} {
		fmt.Printf("%s\n    %s\n", bold.Sprint(event), hookDescriptions[event])
	}
}

func init() {
	rootCmd.AddCommand(listHooksCmd)
}
