package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/genuxhq/genux-api/internal/api/response"
	"github.com/genuxhq/genux-api/internal/cache"
	"github.com/genuxhq/genux-api/internal/catalog"
	"github.com/genuxhq/genux-api/pkg/models"
)

// NewCatalogHandler returns an http.HandlerFunc for GET /endpoints. The
// catalog file is parsed on demand and cached in Redis for cacheTTL.
func NewCatalogHandler(c cache.Cache, path string, cacheTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw, ok, err := c.Get(r.Context(), cache.CatalogKey()); err == nil && ok {
			var cat models.Catalog
			if err := json.Unmarshal(raw, &cat); err == nil {
				response.OK(w, cat)
				return
			}
		}

		cat, err := catalog.Load(path)
		if err != nil {
			slog.Error("load endpoint catalog", "path", path, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to load endpoint catalog")
			return
		}

		if raw, err := json.Marshal(cat); err == nil {
			if err := c.Set(r.Context(), cache.CatalogKey(), raw, cacheTTL); err != nil {
				slog.Warn("cache endpoint catalog", "error", err)
			}
		}

		response.OK(w, cat)
	}
}
