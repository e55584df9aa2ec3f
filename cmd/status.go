package cmd

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/spf13/cobra"

	"github.com/cloudpeel/wafsync/internal/helpers"
	"github.com/cloudpeel/wafsync/internal/message"
	"github.com/cloudpeel/wafsync/pkg/stack"
	"github.com/cloudpeel/wafsync/pkg/types"
	"github.com/cloudpeel/wafsync/pkg/waf"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the web ACL currently associated with the deployed stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadProject()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()

		awsCfg, err := helpers.GetAWSCfg(ctx, cfg.Region, cfg.Profile)
		if err != nil {
			return err
		}

		resolver := stack.NewResolver(cloudformation.NewFromConfig(awsCfg), cfg.StackName(), cfg.RestAPIID)
		restAPIID, err := resolver.Resolve(ctx)
		if err != nil {
			return err
		}
		if restAPIID == "" {
			message.Warning("could not resolve the deployed REST API id for stack %s", cfg.StackName())
			return nil
		}

		family := waf.NormalizeFamily(cfg.AssociateWaf.Version, slog.Default())
		api := waf.New(awsCfg, family)
		partition := helpers.CallerPartition(ctx, awsCfg, cfg.Partition)
		stageARN := types.StageARN(partition, cfg.Region, restAPIID, cfg.Stage)

		current, err := api.GetWebACLForResource(ctx, stageARN)
		if err != nil {
			return err
		}

		if current == nil {
			message.Info("stage %s has no web ACL associated", cfg.Stage)
			return nil
		}

		message.Success("stage %s is protected by %s (%s)", cfg.Stage, message.Emphasize(current.Name), current.Identifier)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
