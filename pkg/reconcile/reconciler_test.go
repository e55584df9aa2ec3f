package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudpeel/wafsync/internal/message"
	"github.com/cloudpeel/wafsync/pkg/stack"
	"github.com/cloudpeel/wafsync/pkg/types"
)

func TestMain(m *testing.M) {
	message.SetSilent(true)
	m.Run()
}

type attachCall struct {
	resourceARN string
	identifier  string
}

// fakeWAF records every provider call the reconciler issues.
type fakeWAF struct {
	pages   [][]types.ACLSummary
	current *types.ACLSummary

	listErr error
	getErr  error

	listCalls         int
	associateCalls    []attachCall
	disassociateCalls []string
}

func (f *fakeWAF) ListWebACLs(_ context.Context, _ int32, marker *string) ([]types.ACLSummary, *string, error) {
	if f.listErr != nil {
		return nil, nil, f.listErr
	}

	page := 0
	if marker != nil {
		fmt.Sscanf(*marker, "page-%d", &page)
	}
	f.listCalls++

	if page >= len(f.pages) {
		return nil, nil, nil
	}

	var next *string
	if page+1 < len(f.pages) {
		next = aws.String(fmt.Sprintf("page-%d", page+1))
	}
	return f.pages[page], next, nil
}

func (f *fakeWAF) GetWebACLForResource(context.Context, string) (*types.ACLSummary, error) {
	return f.current, f.getErr
}

func (f *fakeWAF) AssociateWebACL(_ context.Context, resourceARN, identifier string) error {
	f.associateCalls = append(f.associateCalls, attachCall{resourceARN: resourceARN, identifier: identifier})
	return nil
}

func (f *fakeWAF) DisassociateWebACL(_ context.Context, resourceARN string) error {
	f.disassociateCalls = append(f.disassociateCalls, resourceARN)
	return nil
}

type fakeCFN struct {
	restAPIID string
}

func (f *fakeCFN) ListStackResources(_ context.Context, _ *cloudformation.ListStackResourcesInput, _ ...func(*cloudformation.Options)) (*cloudformation.ListStackResourcesOutput, error) {
	out := &cloudformation.ListStackResourcesOutput{}
	if f.restAPIID != "" {
		out.StackResourceSummaries = []cftypes.StackResourceSummary{{
			LogicalResourceId:  aws.String(types.LogicalRestAPIID),
			PhysicalResourceId: aws.String(f.restAPIID),
		}}
	}
	return out, nil
}

func (f *fakeCFN) DescribeStacks(_ context.Context, _ *cloudformation.DescribeStacksInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	return &cloudformation.DescribeStacksOutput{Stacks: []cftypes.Stack{{}}}, nil
}

func newTestReconciler(api *fakeWAF, restAPIID, name string) *Reconciler {
	resolver := stack.NewResolver(&fakeCFN{restAPIID: restAPIID}, "svc-prod", "")
	return New(api, resolver, Params{
		Name:      name,
		Partition: "aws",
		Region:    "us-east-1",
		Stage:     "prod",
	}, nil)
}

func TestReconcileAssociatesConfiguredACL(t *testing.T) {
	// End-to-end scenario: name configured, REST API in stack resources,
	// ACL match on the first listing page.
	api := &fakeWAF{pages: [][]types.ACLSummary{
		{{Name: "acl-prod", Identifier: "wafid-9"}},
	}}

	outcome := newTestReconciler(api, "abc123", "acl-prod").Reconcile(context.Background())

	require.NoError(t, outcome.Err)
	assert.Equal(t, ActionAssociated, outcome.Action)
	require.Len(t, api.associateCalls, 1)
	assert.Equal(t, "arn:aws:apigateway:us-east-1::/restapis/abc123/stages/prod", api.associateCalls[0].resourceARN)
	assert.Equal(t, "wafid-9", api.associateCalls[0].identifier)
	assert.Empty(t, api.disassociateCalls)
}

func TestReconcileBlankNameNeverListsACLs(t *testing.T) {
	tests := []struct {
		name       string
		configured string
	}{
		{name: "absent", configured: ""},
		{name: "whitespace only", configured: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeWAF{}
			params := Params{Name: strings.TrimSpace(tt.configured), Partition: "aws", Region: "us-east-1", Stage: "prod"}
			resolver := stack.NewResolver(&fakeCFN{restAPIID: "xyz789"}, "svc-prod", "")

			outcome := New(api, resolver, params, nil).Reconcile(context.Background())

			require.NoError(t, outcome.Err)
			assert.Zero(t, api.listCalls, "disassociate path must not look up ACLs")
		})
	}
}

func TestReconcileNoAssociationIsNoOp(t *testing.T) {
	// End-to-end scenario: nothing configured and the provider reports no
	// current association, so no detach call goes out.
	api := &fakeWAF{current: nil}

	outcome := newTestReconciler(api, "xyz789", "").Reconcile(context.Background())

	require.NoError(t, outcome.Err)
	assert.Equal(t, ActionNone, outcome.Action)
	assert.Empty(t, api.disassociateCalls)
}

func TestReconcileDisassociatesExistingACL(t *testing.T) {
	api := &fakeWAF{current: &types.ACLSummary{Name: "acl-old", Identifier: "wafid-3"}}

	outcome := newTestReconciler(api, "xyz789", "").Reconcile(context.Background())

	require.NoError(t, outcome.Err)
	assert.Equal(t, ActionDisassociated, outcome.Action)
	assert.Equal(t, "wafid-3", outcome.ACL)
	require.Len(t, api.disassociateCalls, 1)
	assert.Equal(t, "arn:aws:apigateway:us-east-1::/restapis/xyz789/stages/prod", api.disassociateCalls[0])
}

func TestReconcileACLNotFoundSkips(t *testing.T) {
	// End-to-end scenario: configured name never appears in the listing.
	api := &fakeWAF{pages: [][]types.ACLSummary{
		{{Name: "edge", Identifier: "acl-1"}},
		{{Name: "staging", Identifier: "acl-2"}},
	}}

	outcome := newTestReconciler(api, "abc123", "missing-acl").Reconcile(context.Background())

	require.NoError(t, outcome.Err, "not found is logged, not raised")
	assert.Equal(t, ActionSkipped, outcome.Action)
	assert.Empty(t, api.associateCalls)
}

func TestReconcileUnresolvedRestAPISkips(t *testing.T) {
	api := &fakeWAF{}

	outcome := newTestReconciler(api, "", "acl-prod").Reconcile(context.Background())

	require.NoError(t, outcome.Err)
	assert.Equal(t, ActionSkipped, outcome.Action)
	assert.Zero(t, api.listCalls, "resolution failure aborts before lookup")
	assert.Empty(t, api.associateCalls)
}

func TestReconcileProviderErrorSurfacesInOutcome(t *testing.T) {
	api := &fakeWAF{listErr: errors.New("throttled")}

	outcome := newTestReconciler(api, "abc123", "acl-prod").Reconcile(context.Background())

	require.Error(t, outcome.Err)
	assert.Equal(t, ActionSkipped, outcome.Action)
	assert.Empty(t, api.associateCalls)
}

func TestReconcileAssociationQueryErrorSurfaces(t *testing.T) {
	api := &fakeWAF{getErr: errors.New("access denied")}

	outcome := newTestReconciler(api, "xyz789", "").Reconcile(context.Background())

	require.Error(t, outcome.Err)
	assert.Equal(t, ActionSkipped, outcome.Action)
	assert.Empty(t, api.disassociateCalls)
}
