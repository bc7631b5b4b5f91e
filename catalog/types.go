package catalog

// Project is one entry of the catalog project listing.
type Project struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// Contact is a user record returned by the users search endpoint.
type Contact struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// InventoryItem is one row of a project's inventory summary. Name is the
// display name and may carry a bracketed provenance annotation such as
// "libX 1.2 [bundled with libY 2.0]".
type InventoryItem struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	ComponentName string `json:"componentName"`
}

// InventoryPage is a single page of the inventory summary. CurrentPage and
// TotalPages come from the response headers, not the body.
type InventoryPage struct {
	Items       []InventoryItem
	CurrentPage int
	TotalPages  int
}

type projectsResponse struct {
	Data []Project `json:"data"`
}

type contactsResponse struct {
	Data []Contact `json:"data"`
}

type inventoryResponse struct {
	Data []InventoryItem `json:"data"`
}
