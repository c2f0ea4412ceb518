// FilePath: api/resources/api.resource.analytics.go
package resources

import (
	"net/http"

	"github.com/apiaryworks/hivedash/internal/hiveservice"
	nuts "github.com/vaudience/go-nuts"
)

// AnalyticsHandlers encapsulates the analytics HTTP handlers
type AnalyticsHandlers struct {
	hiveservice *hiveservice.HiveService
}

// @Summary Get fleet KPIs
// @Description Compute the KPI report for the selected window
// @Tags analytics
// @Produce json
// @Param window query string false "Named window: 24h, 7d or 30d"
// @Param hive_id query string false "Hive ID or 'all'"
// @Success 200 {object} models.KPIReport
// @Failure 503 {object} errors.APIError
// @Router /analytics/kpis [get]
// @Security BearerAuth
func (h *AnalyticsHandlers) GetKPIs(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	query := r.URL.Query()

	report, err := h.hiveservice.KPIs(r.Context(), query.Get("window"), query.Get("hive_id"))
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to compute KPIs").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// @Summary Get alerts
// @Description Evaluate alert thresholds over the latest readings
// @Tags analytics
// @Produce json
// @Success 200 {array} models.Alert
// @Failure 503 {object} errors.APIError
// @Router /analytics/alerts [get]
// @Security BearerAuth
func (h *AnalyticsHandlers) GetAlerts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	alerts, err := h.hiveservice.Alerts(r.Context())
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to evaluate alerts").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, alerts)
}
