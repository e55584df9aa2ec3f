// Package waf wraps the two AWS WAF API generations behind one client
// surface. The Regional family (WAF Classic) addresses ACLs by WebACLId; the
// V2 family addresses them by ARN and additionally scopes list calls. All
// four provider operations this tool issues are normalized here so the
// reconciler never branches on family itself.
package waf

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/wafregional"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	wafv2types "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/aws/smithy-go"

	"github.com/cloudpeel/wafsync/pkg/types"
)

// API is the family-neutral provider surface. Identifier semantics follow
// types.ACLSummary: WebACLId for Regional, ARN for V2.
type API interface {
	ListWebACLs(ctx context.Context, limit int32, marker *string) ([]types.ACLSummary, *string, error)
	GetWebACLForResource(ctx context.Context, resourceARN string) (*types.ACLSummary, error)
	AssociateWebACL(ctx context.Context, resourceARN, aclIdentifier string) error
	DisassociateWebACL(ctx context.Context, resourceARN string) error
}

// New builds the client for the validated family.
func New(cfg aws.Config, family types.Family) API {
	if family == types.FamilyV2 {
		return &v2API{client: wafv2.NewFromConfig(cfg)}
	}
	return &regionalAPI{client: wafregional.NewFromConfig(cfg)}
}

// ErrorCode extracts the provider error code when err is an AWS API error,
// for operator-facing diagnostics.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

type regionalAPI struct {
	client *wafregional.Client
}

func (a *regionalAPI) ListWebACLs(ctx context.Context, limit int32, marker *string) ([]types.ACLSummary, *string, error) {
	out, err := a.client.ListWebACLs(ctx, &wafregional.ListWebACLsInput{
		Limit:      limit,
		NextMarker: marker,
	})
	if err != nil {
		return nil, nil, err
	}

	acls := make([]types.ACLSummary, 0, len(out.WebACLs))
	for _, summary := range out.WebACLs {
		acls = append(acls, types.ACLSummary{
			Name:       aws.ToString(summary.Name),
			Identifier: aws.ToString(summary.WebACLId),
		})
	}

	return acls, out.NextMarker, nil
}

func (a *regionalAPI) GetWebACLForResource(ctx context.Context, resourceARN string) (*types.ACLSummary, error) {
	out, err := a.client.GetWebACLForResource(ctx, &wafregional.GetWebACLForResourceInput{
		ResourceArn: aws.String(resourceARN),
	})
	if err != nil {
		return nil, err
	}

	if out.WebACLSummary == nil {
		return nil, nil
	}

	return &types.ACLSummary{
		Name:       aws.ToString(out.WebACLSummary.Name),
		Identifier: aws.ToString(out.WebACLSummary.WebACLId),
	}, nil
}

func (a *regionalAPI) AssociateWebACL(ctx context.Context, resourceARN, aclIdentifier string) error {
	_, err := a.client.AssociateWebACL(ctx, &wafregional.AssociateWebACLInput{
		ResourceArn: aws.String(resourceARN),
		WebACLId:    aws.String(aclIdentifier),
	})
	return err
}

func (a *regionalAPI) DisassociateWebACL(ctx context.Context, resourceARN string) error {
	_, err := a.client.DisassociateWebACL(ctx, &wafregional.DisassociateWebACLInput{
		ResourceArn: aws.String(resourceARN),
	})
	return err
}

type v2API struct {
	client *wafv2.Client
}

func (a *v2API) ListWebACLs(ctx context.Context, limit int32, marker *string) ([]types.ACLSummary, *string, error) {
	out, err := a.client.ListWebACLs(ctx, &wafv2.ListWebACLsInput{
		Scope:      wafv2types.ScopeRegional,
		Limit:      aws.Int32(limit),
		NextMarker: marker,
	})
	if err != nil {
		return nil, nil, err
	}

	acls := make([]types.ACLSummary, 0, len(out.WebACLs))
	for _, summary := range out.WebACLs {
		acls = append(acls, types.ACLSummary{
			Name:       aws.ToString(summary.Name),
			Identifier: aws.ToString(summary.ARN),
		})
	}

	return acls, out.NextMarker, nil
}

func (a *v2API) GetWebACLForResource(ctx context.Context, resourceARN string) (*types.ACLSummary, error) {
	out, err := a.client.GetWebACLForResource(ctx, &wafv2.GetWebACLForResourceInput{
		ResourceArn: aws.String(resourceARN),
	})
	if err != nil {
		return nil, err
	}

	if out.WebACL == nil {
		return nil, nil
	}

	return &types.ACLSummary{
		Name:       aws.ToString(out.WebACL.Name),
		Identifier: aws.ToString(out.WebACL.ARN),
	}, nil
}

func (a *v2API) AssociateWebACL(ctx context.Context, resourceARN, aclIdentifier string) error {
	_, err := a.client.AssociateWebACL(ctx, &wafv2.AssociateWebACLInput{
		ResourceArn: aws.String(resourceARN),
		WebACLArn:   aws.String(aclIdentifier),
	})
	return err
}

func (a *v2API) DisassociateWebACL(ctx context.Context, resourceARN string) error {
	_, err := a.client.DisassociateWebACL(ctx, &wafv2.DisassociateWebACLInput{
		ResourceArn: aws.String(resourceARN),
	})
	return err
}
