// Package stack resolves the identity of the deployed REST API from the live
// CloudFormation stack.
package stack

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/cloudpeel/wafsync/pkg/types"
)

// CloudFormationAPI is the slice of the CloudFormation client the resolver
// needs; *cloudformation.Client satisfies it.
type CloudFormationAPI interface {
	ListStackResources(ctx context.Context, params *cloudformation.ListStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStackResourcesOutput, error)
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

type Resolver struct {
	cfn CloudFormationAPI

	// PinnedID short-circuits resolution entirely when set; escape hatch for
	// externally composed stacks.
	PinnedID string

	// StackName is the deployment stack to inspect.
	StackName string
}

func NewResolver(cfn CloudFormationAPI, stackName, pinnedID string) *Resolver {
	return &Resolver{
		cfn:       cfn,
		PinnedID:  pinnedID,
		StackName: stackName,
	}
}

// Resolve returns the REST API id of the deployed stack, or "" when no
// strategy produced one. Strategies run in order: configured pin, stack
// resource inventory under the conventional logical id, stack output under
// the sentinel key. Transient provider failures propagate unretried.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.PinnedID != "" {
		slog.Debug("using pinned REST API id", slog.String("restApiId", r.PinnedID))
		return r.PinnedID, nil
	}

	id, err := r.fromStackResources(ctx)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	// The REST API resource may live in a different, split stack; the
	// annotated output is the fallback path.
	return r.fromStackOutputs(ctx)
}

func (r *Resolver) fromStackResources(ctx context.Context) (string, error) {
	var token *string

	for {
		out, err := r.cfn.ListStackResources(ctx, &cloudformation.ListStackResourcesInput{
			StackName: aws.String(r.StackName),
			NextToken: token,
		})
		if err != nil {
			return "", err
		}

		for _, summary := range out.StackResourceSummaries {
			if aws.ToString(summary.LogicalResourceId) != types.LogicalRestAPIID {
				continue
			}
			if id := aws.ToString(summary.PhysicalResourceId); id != "" {
				return id, nil
			}
		}

		if out.NextToken == nil {
			return "", nil
		}
		token = out.NextToken
	}
}

func (r *Resolver) fromStackOutputs(ctx context.Context) (string, error) {
	out, err := r.cfn.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(r.StackName),
	})
	if err != nil {
		return "", err
	}

	for _, stack := range out.Stacks {
		for _, output := range stack.Outputs {
			if aws.ToString(output.OutputKey) == types.OutputRestAPIID {
				return aws.ToString(output.OutputValue), nil
			}
		}
	}

	return "", nil
}
