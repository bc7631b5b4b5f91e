package catalog

import (
	"context"
	"log"

	"golang.org/x/xerrors"
)

// PageFetcher returns a single inventory page. *Client implements it.
type PageFetcher interface {
	InventoryPage(ctx context.Context, projectID, page int) (InventoryPage, error)
}

var ErrPageNotAdvanced = xerrors.New("server did not advance the current page")

// Paginator walks every inventory page of a project in order.
type Paginator struct {
	fetcher PageFetcher
}

func NewPaginator(f PageFetcher) Paginator {
	return Paginator{fetcher: f}
}

// FetchAll returns the concatenated items of all pages. Any failing page
// yields a *PartialFailure and no items at all; a project is either
// collected in full or skipped.
func (p Paginator) FetchAll(ctx context.Context, projectID int) ([]InventoryItem, error) {
	log.Printf("    Collecting inventory summary for project %d", projectID)

	first, err := p.fetcher.InventoryPage(ctx, projectID, 1)
	if err != nil {
		return nil, &PartialFailure{ProjectID: projectID, Page: 1, Err: err}
	}
	if len(first.Items) == 0 {
		return []InventoryItem{}, nil
	}

	items := append([]InventoryItem{}, first.Items...)

	// the page reported by the server, not a local counter, decides what comes next
	current := first.CurrentPage
	for next := current + 1; next <= first.TotalPages; next = current + 1 {
		page, err := p.fetcher.InventoryPage(ctx, projectID, next)
		if err != nil {
			log.Printf("    *** Error collecting additional information from project %d", projectID)
			return nil, &PartialFailure{ProjectID: projectID, Page: next, Err: err}
		}
		if page.CurrentPage <= current {
			return nil, &PartialFailure{ProjectID: projectID, Page: next, Err: ErrPageNotAdvanced}
		}
		log.Printf("        Project inventory received: Page %d of %d", page.CurrentPage, first.TotalPages)

		current = page.CurrentPage
		items = append(items, page.Items...)
	}

	return items, nil
}
