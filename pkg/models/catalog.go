package models

// CatalogEndpoint is one documented REST endpoint in the docs catalog.
type CatalogEndpoint struct {
	Name        string `json:"name"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// CatalogCategory groups endpoints under a sidebar category in the docs UI.
type CatalogCategory struct {
	Name      string            `json:"name"`
	Endpoints []CatalogEndpoint `json:"endpoints"`
}

// Catalog is the full endpoint catalog served to the docs UI.
type Catalog struct {
	Categories []CatalogCategory `json:"categories"`
}
