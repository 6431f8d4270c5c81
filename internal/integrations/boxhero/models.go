package boxhero

import "github.com/shopspring/decimal"

// Item is one catalog entry as returned by the BoxHero items API.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Unit     string          `json:"unit"`
	Quantity int             `json:"quantity"`
}

// ItemsResponse is a single page of the items listing. An empty
// NextCursor means the last page.
type ItemsResponse struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"next_cursor"`
}

// SyncResult summarizes what one catalog sync changed locally.
type SyncResult struct {
	ItemsSeen    int   `json:"items_seen"`
	Created      int   `json:"created"`
	Updated      int   `json:"updated"`
	Adjusted     int   `json:"adjusted"`
	ArchivedIDs  []int `json:"archived_ids"`
}
