package types

import "fmt"

// Family selects which WAF API generation provider calls go through.
type Family string

const (
	FamilyRegional Family = "Regional"
	FamilyV2       Family = "V2"
)

// ScopeRegional is the only wafv2 scope a REST API stage can live in.
// CLOUDFRONT-scoped ACLs attach to distributions, which are out of scope here.
const ScopeRegional = "REGIONAL"

// LogicalRestAPIID is the logical resource id the packaging platform assigns
// to the auto-generated REST API in the CloudFormation template.
const LogicalRestAPIID = "ApiGatewayRestApi"

// OutputRestAPIID is the stack output key wafsync injects before packaging so
// the REST API id stays discoverable after deploy, including from split
// stacks where the resource itself lives elsewhere.
const OutputRestAPIID = "WafSyncRestApiId"

// ACLSummary is a web ACL listing entry normalized across API families.
// Identifier is a WebACLId for the Regional family and an ARN for V2.
type ACLSummary struct {
	Name       string
	Identifier string
}

// Association is the provider-reported attachment state of a stage.
type Association struct {
	ACL *ACLSummary
}

func (a Association) Associated() bool {
	return a.ACL != nil
}

// StageARN renders the attachment point for a deployed REST API stage. The
// format must match what the WAF APIs expect byte for byte.
func StageARN(partition, region, restAPIID, stage string) string {
	return fmt.Sprintf("arn:%s:apigateway:%s::/restapis/%s/stages/%s", partition, region, restAPIID, stage)
}
