// FilePath: api/resources/api.resource.hives.go
package resources

import (
	"net/http"

	"github.com/apiaryworks/hivedash/internal/hiveservice"
	nuts "github.com/vaudience/go-nuts"
)

// HiveHandlers encapsulates the hive-related HTTP handlers
type HiveHandlers struct {
	hiveservice *hiveservice.HiveService
}

// @Summary List hives
// @Description Get the configured hive list
// @Tags hives
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} errors.APIError
// @Router /hives [get]
// @Security BearerAuth
func (h *HiveHandlers) ListHives(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	hives, err := h.hiveservice.Hives(r.Context())
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to load hive configuration").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"hives": hives,
	})
}
