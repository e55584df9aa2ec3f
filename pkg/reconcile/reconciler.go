// Package reconcile converges the live WAF association of a deployed REST
// API stage onto the declared configuration. The provider is the sole source
// of truth for current state; nothing is cached between runs.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudpeel/wafsync/internal/message"
	"github.com/cloudpeel/wafsync/pkg/stack"
	"github.com/cloudpeel/wafsync/pkg/types"
	"github.com/cloudpeel/wafsync/pkg/waf"
)

type Action string

const (
	// ActionAssociated and ActionDisassociated record an issued provider call.
	ActionAssociated    Action = "associated"
	ActionDisassociated Action = "disassociated"

	// ActionNone means the stage was already converged and no call was issued.
	ActionNone Action = "none"

	// ActionSkipped means the run was abandoned: unresolved REST API id,
	// unknown ACL name, or a provider failure recorded in Outcome.Err.
	ActionSkipped Action = "skipped"
)

// Outcome is the explicit result of one reconciliation run. The caller (the
// post-deploy hook) owns the decision to log and continue; the reconciler
// never panics and never hides a failure.
type Outcome struct {
	Action Action
	ACL    string
	Err    error
}

// Params addresses the attachment point and carries the desired state.
type Params struct {
	// Name is the desired ACL name, already trimmed. Empty means the stage
	// should end up unassociated.
	Name string

	Partition string
	Region    string
	Stage     string
}

type Reconciler struct {
	api      waf.API
	resolver *stack.Resolver
	params   Params
	log      *slog.Logger
}

func New(api waf.API, resolver *stack.Resolver, params Params, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{
		api:      api,
		resolver: resolver,
		params:   params,
		log:      log,
	}
}

// Reconcile drives the stage to the desired association state. A configured
// name means attach; no name means detach.
func (r *Reconciler) Reconcile(ctx context.Context) Outcome {
	if r.params.Name != "" {
		return r.associate(ctx)
	}
	return r.disassociate(ctx)
}

func (r *Reconciler) associate(ctx context.Context) Outcome {
	restAPIID, outcome := r.resolveRestAPI(ctx)
	if restAPIID == "" {
		return outcome
	}

	acl, err := waf.FindByName(ctx, r.api, r.params.Name)
	if err != nil {
		return Outcome{Action: ActionSkipped, Err: fmt.Errorf("listing web ACLs: %w", err)}
	}
	if acl == nil {
		message.Warning("web ACL %q not found, skipping association", r.params.Name)
		r.log.Warn("web ACL not found", slog.String("name", r.params.Name))
		return Outcome{Action: ActionSkipped}
	}

	stageARN := r.stageARN(restAPIID)
	message.Info("associating web ACL %q with stage %s", r.params.Name, r.params.Stage)
	r.log.Info("associating web ACL",
		slog.String("name", r.params.Name),
		slog.String("acl", acl.Identifier),
		slog.String("resource", stageARN))

	if err := r.api.AssociateWebACL(ctx, stageARN, acl.Identifier); err != nil {
		return Outcome{Action: ActionSkipped, ACL: acl.Identifier, Err: fmt.Errorf("associating web ACL: %w", err)}
	}

	return Outcome{Action: ActionAssociated, ACL: acl.Identifier}
}

func (r *Reconciler) disassociate(ctx context.Context) Outcome {
	restAPIID, outcome := r.resolveRestAPI(ctx)
	if restAPIID == "" {
		return outcome
	}

	stageARN := r.stageARN(restAPIID)

	current, err := r.api.GetWebACLForResource(ctx, stageARN)
	if err != nil {
		return Outcome{Action: ActionSkipped, Err: fmt.Errorf("querying stage association: %w", err)}
	}
	if current == nil {
		// Already converged; a detach call here would error against an
		// unassociated resource.
		r.log.Debug("no web ACL associated with stage", slog.String("resource", stageARN))
		return Outcome{Action: ActionNone}
	}

	message.Info("disassociating web ACL %q from stage %s", current.Name, r.params.Stage)
	r.log.Info("disassociating web ACL",
		slog.String("acl", current.Identifier),
		slog.String("resource", stageARN))

	if err := r.api.DisassociateWebACL(ctx, stageARN); err != nil {
		return Outcome{Action: ActionSkipped, ACL: current.Identifier, Err: fmt.Errorf("disassociating web ACL: %w", err)}
	}

	return Outcome{Action: ActionDisassociated, ACL: current.Identifier}
}

// resolveRestAPI runs the resolver and converts "not found" into an abandoned
// run. The second return is only meaningful when the first is empty.
func (r *Reconciler) resolveRestAPI(ctx context.Context) (string, Outcome) {
	restAPIID, err := r.resolver.Resolve(ctx)
	if err != nil {
		return "", Outcome{Action: ActionSkipped, Err: fmt.Errorf("resolving REST API id: %w", err)}
	}
	if restAPIID == "" {
		message.Warning("could not resolve the deployed REST API id, skipping WAF reconciliation")
		r.log.Warn("REST API id unresolved", slog.String("stack", r.resolver.StackName))
		return "", Outcome{Action: ActionSkipped}
	}
	return restAPIID, Outcome{}
}

func (r *Reconciler) stageARN(restAPIID string) string {
	return types.StageARN(r.params.Partition, r.params.Region, restAPIID, r.params.Stage)
}
