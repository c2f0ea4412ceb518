// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/apiaryworks/hivedash/internal/hiveservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Data        *DataHandlers
	Hives       *HiveHandlers
	Analytics   *AnalyticsHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hiveservice.HiveService) *Resources {
	return &Resources{
		Data:      &DataHandlers{hiveservice: svc},
		Hives:     &HiveHandlers{hiveservice: svc},
		Analytics: &AnalyticsHandlers{hiveservice: svc},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}
