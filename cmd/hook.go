package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cloudpeel/wafsync/internal/helpers"
	"github.com/cloudpeel/wafsync/internal/lifecycle"
	"github.com/cloudpeel/wafsync/internal/message"
	"github.com/cloudpeel/wafsync/pkg/config"
	"github.com/cloudpeel/wafsync/pkg/reconcile"
	"github.com/cloudpeel/wafsync/pkg/stack"
	"github.com/cloudpeel/wafsync/pkg/template"
	"github.com/cloudpeel/wafsync/pkg/waf"
)

const errBanner = "=========================== WAF RECONCILIATION ==========================="

var hookCmd = &cobra.Command{
	Use:   "hook <event>",
	Short: "Fire a deployment lifecycle event",
	Long: fmt.Sprintf(`Fire a deployment lifecycle event through the hook registry.

The deployment host is expected to invoke:
  %s   after the template is generated, before packaging
  %s             after a successful deploy`,
		lifecycle.BeforePackageFinalize, lifecycle.AfterDeploy),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadProject()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		runID := uuid.NewString()
		log := slog.Default().With(slog.String("run_id", runID))

		log.Debug("firing lifecycle event", slog.String("event", args[0]))
		return newRegistry(cfg, log).Fire(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

// newRegistry wires the lifecycle handlers once. Annotation errors propagate
// and fail the event: a template that cannot be annotated should stop the
// pipeline before packaging. Reconciliation errors never do: WAF association
// is a best-effort post-deploy step and must not fail an otherwise
// successful deployment, so its handler logs under a banner and returns nil.
func newRegistry(cfg *config.Config, log *slog.Logger) *lifecycle.Registry {
	registry := lifecycle.NewRegistry()

	registry.Register(lifecycle.BeforePackageFinalize, func(ctx context.Context) error {
		if cfg.Template == "" {
			return fmt.Errorf("template path is required for %s (set template in %s)",
				lifecycle.BeforePackageFinalize, config.DefaultFile)
		}
		if err := template.AnnotateFile(cfg.Template); err != nil {
			return err
		}
		message.Success("annotated %s with the REST API id output", cfg.Template)
		return nil
	})

	registry.Register(lifecycle.AfterDeploy, func(ctx context.Context) error {
		outcome := runReconcile(ctx, cfg, log)
		if outcome.Err != nil {
			message.Critical("%s", errBanner)
			message.Critical("%v", outcome.Err)
			if code := waf.ErrorCode(outcome.Err); code != "" {
				log.Error("waf reconciliation failed", slog.Any("error", outcome.Err), slog.String("code", code))
			} else {
				log.Error("waf reconciliation failed", slog.Any("error", outcome.Err))
			}
			return nil
		}

		switch outcome.Action {
		case reconcile.ActionAssociated:
			message.Success("web ACL %s associated", outcome.ACL)
		case reconcile.ActionDisassociated:
			message.Success("web ACL %s disassociated", outcome.ACL)
		case reconcile.ActionNone:
			message.Info("stage already converged, nothing to do")
		}
		return nil
	})

	return registry
}

// runReconcile builds the provider clients fresh for this run (deploys may
// have replaced the stack) and converges the stage.
func runReconcile(ctx context.Context, cfg *config.Config, log *slog.Logger) reconcile.Outcome {
	awsCfg, err := helpers.GetAWSCfg(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return reconcile.Outcome{Action: reconcile.ActionSkipped, Err: fmt.Errorf("loading AWS config: %w", err)}
	}

	family := waf.NormalizeFamily(cfg.AssociateWaf.Version, log)
	api := waf.New(awsCfg, family)
	resolver := stack.NewResolver(cloudformation.NewFromConfig(awsCfg), cfg.StackName(), cfg.RestAPIID)
	partition := helpers.CallerPartition(ctx, awsCfg, cfg.Partition)

	reconciler := reconcile.New(api, resolver, reconcile.Params{
		Name:      cfg.WafName(),
		Partition: partition,
		Region:    cfg.Region,
		Stage:     cfg.Stage,
	}, log)

	return reconciler.Reconcile(ctx)
}
