// Package catalog loads the static endpoint catalog the docs UI renders.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/genuxhq/genux-api/pkg/models"
)

// Load reads and parses the endpoint catalog JSON file.
func Load(path string) (*models.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var cat models.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return &cat, nil
}
