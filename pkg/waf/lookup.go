package waf

import (
	"context"

	"github.com/cloudpeel/wafsync/pkg/types"
)

// listPageSize caps each ListWebACLs round trip. Both families accept 100.
const listPageSize = 100

// FindByName walks the web ACL listing page by page until an entry matches
// name exactly (case sensitive) and returns it without requesting further
// pages. A nil result with nil error means the listing was exhausted without
// a match; the caller decides whether that is fatal.
func FindByName(ctx context.Context, api API, name string) (*types.ACLSummary, error) {
	var marker *string

	for {
		acls, next, err := api.ListWebACLs(ctx, listPageSize, marker)
		if err != nil {
			return nil, err
		}

		for _, acl := range acls {
			if acl.Name == name {
				match := acl
				return &match, nil
			}
		}

		if next == nil || *next == "" {
			return nil, nil
		}
		marker = next
	}
}
