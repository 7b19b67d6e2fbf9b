// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syncer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// replaceChildren clears a page's existing children ahead of new content.
// Without force, children of protected types (sub-pages, databases, synced
// blocks) stay in place and keep their relative order; the replacement
// content lands after them. With force everything goes. A delete failure
// escalates immediately so a half-cleared page is never silently treated as
// clean.
func (s *Syncer) replaceChildren(ctx context.Context, pageID string, force bool) error {
	children, err := s.client.ListChildren(ctx, pageID)
	if err != nil {
		return fmt.Errorf("listing existing children: %w", err)
	}

	kept := 0
	for _, child := range children {
		if !force && child.Protected() {
			kept++
			continue
		}
		if err := s.client.DeleteBlock(ctx, child.ID); err != nil {
			return fmt.Errorf("clearing page content: %w", err)
		}
	}

	if kept > 0 {
		s.log.Info("preserved protected children",
			zap.String("page_id", pageID),
			zap.Int("count", kept))
	}
	return nil
}
