// FilePath: api/resources/api.resource.data.go
package resources

import (
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/apiaryworks/hivedash/internal/errors"
	"github.com/apiaryworks/hivedash/internal/hiveservice"
	"github.com/apiaryworks/hivedash/internal/models"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"
)

// DataHandlers encapsulates the data-management HTTP handlers
type DataHandlers struct {
	hiveservice *hiveservice.HiveService
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(time.Time{}, func(value string) reflect.Value {
		if parsed, err := time.Parse(time.RFC3339, value); err == nil {
			return reflect.ValueOf(parsed)
		}
		return reflect.Value{}
	})
	return d
}

// @Summary Get data info
// @Description Summarize the currently available data without loading it
// @Tags data
// @Produce json
// @Success 200 {object} models.DataInfo
// @Failure 503 {object} errors.APIError
// @Router /data/info [get]
func (h *DataHandlers) GetDataInfo(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	info, err := h.hiveservice.DataInfo(r.Context())
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to get data info").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, info)
}

// @Summary Refresh data
// @Description Force a refetch of both artifacts, bypassing change detection
// @Tags data
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} errors.APIError
// @Router /data/refresh [post]
// @Security BearerAuth
func (h *DataHandlers) RefreshData(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	dataset, configs, err := h.hiveservice.RefreshData(r.Context())
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to refresh data").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Data refreshed successfully",
		"records": len(dataset),
		"hives":   len(configs),
	})
}

// @Summary Check for updates
// @Description Run one change-detection pass against the remote repository
// @Tags data
// @Produce json
// @Success 200 {object} map[string]any
// @Router /data/check-updates [get]
// @Security BearerAuth
func (h *DataHandlers) CheckUpdates(w http.ResponseWriter, r *http.Request) {
	updates := h.hiveservice.CheckForUpdates(r.Context())

	respondWithJSON(w, http.StatusOK, map[string]any{
		"updates_available": updates,
	})
}

// @Summary Get readings
// @Description Get sensor readings, optionally filtered by hive and time range
// @Tags data
// @Produce json
// @Param hive_id query string false "Hive ID or 'all'"
// @Param start query string false "Range start (RFC3339)"
// @Param end query string false "Range end (RFC3339)"
// @Param window query string false "Named window: 24h, 7d or 30d"
// @Success 200 {array} models.Reading
// @Failure 400 {object} errors.APIError
// @Router /readings [get]
// @Security BearerAuth
func (h *DataHandlers) GetReadings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var filters models.ReadingFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	readings, err := h.hiveservice.Readings(r.Context(), filters)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to load readings").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

func asAPIError(err error, fallback string) *errors.APIError {
	if apiErr, ok := err.(*errors.APIError); ok {
		return apiErr
	}
	return errors.NewInternalError(fallback, err)
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
