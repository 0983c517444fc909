package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/calldeskhq/reportetl/internal/auth"
	"github.com/calldeskhq/reportetl/internal/cache"
	"github.com/calldeskhq/reportetl/internal/storage"
)

// AdminHandler handles destructive maintenance endpoints
type AdminHandler struct {
	stage  *cache.PayloadStage
	store  storage.Store
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(stage *cache.PayloadStage, store storage.Store, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		stage:  stage,
		store:  store,
		logger: logger,
	}
}

// RequireAdmin middleware — only admin role allowed
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.GetUserFromContext(r.Context())
		if !ok || !auth.HasRole(claims, "admin") {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"admin role required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetStageStatus reports which dates have reports waiting
// GET /api/admin/stage
func (h *AdminHandler) GetStageStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dates":    h.stage.Dates(),
		"payloads": h.stage.Size(),
	})
}

// WipeDynamo truncates all DynamoDB tables
// POST /api/admin/wipe-dynamo
func (h *AdminHandler) WipeDynamo(w http.ResponseWriter, r *http.Request) {
	if err := h.store.TruncateAll(); err != nil {
		h.logger.Error().Err(err).Msg("failed to truncate DynamoDB tables")
		http.Error(w, fmt.Sprintf(`{"error":"failed to truncate: %s"}`, err), http.StatusInternalServerError)
		return
	}

	h.logger.Info().Msg("DynamoDB tables truncated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "DynamoDB tables truncated",
	})
}
