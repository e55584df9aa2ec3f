package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudpeel/wafsync/internal/message"
	"github.com/cloudpeel/wafsync/pkg/template"
)

var templatePath string

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Inject the REST API id output into a generated CloudFormation template",
	Long: `Add the stack output that makes the auto-generated REST API resource's id
discoverable after deploy. Normally run through the before:package:finalize
hook; this command exists for pipelines that drive packaging by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := templatePath
		if path == "" {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			path = cfg.Template
		}
		if path == "" {
			return fmt.Errorf("no template given: pass --template or set template in the project file")
		}

		if err := template.AnnotateFile(path); err != nil {
			return err
		}

		message.Success("annotated %s", path)
		return nil
	},
}

func init() {
	annotateCmd.Flags().StringVarP(&templatePath, "template", "t", "", "path to the generated CloudFormation template")
	rootCmd.AddCommand(annotateCmd)
}
