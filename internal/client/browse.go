package client

import (
	"context"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/query"
)

// BrowseView is the item browse screen: it re-queries only when the
// filter changes and ignores results that arrive after Close.
type BrowseView struct {
	refresher *query.Refresher[SearchParams, *Page[domain.Item]]
}

func NewBrowseView(c *Client) *BrowseView {
	return &BrowseView{refresher: query.NewRefresher[SearchParams, *Page[domain.Item]](c.SearchItems)}
}

// SetFilter shows the items for p.
func (v *BrowseView) SetFilter(ctx context.Context, p SearchParams) (*Page[domain.Item], error) {
	return v.refresher.Refresh(ctx, p)
}

// Reload re-runs the current filter, e.g. after creating a listing.
func (v *BrowseView) Reload(ctx context.Context) (*Page[domain.Item], error) {
	return v.refresher.Force(ctx)
}

func (v *BrowseView) Close() {
	v.refresher.Dispose()
}
