package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/summary"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

func newEngine(t *testing.T, cfg *config.Config, auditLogs handlers.AuditLogLister) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewSlotMemoryStore()
	cal := domain.DefaultCalendar()
	catalog := domain.DefaultCatalog()
	m := metrics.New("test")
	resolver := ucBooking.NewResolver(store, cal, catalog, cache.Noop{}, nil, m)
	renderer, err := summary.NewRenderer("png")
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config:  cfg,
		Metrics: m,
		Public: handlers.PublicDeps{
			Catalog:   catalog,
			Resolver:  resolver,
			Booker:    ucBooking.NewBooker(store, resolver, cal, catalog, ucBooking.PolicyFirstAvailable, nil, nil, nil, m),
			Canceller: ucBooking.NewCanceller(store, resolver, cal, catalog, nil, nil, nil, m),
			Lookup:    ucBooking.NewLookup(store, catalog),
			Renderer:  renderer,
		},
		AuditLogs: auditLogs,
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes(t *testing.T) {
	r := newEngine(t, &config.Config{MetricsEnabled: true, RateLimitPerMinute: 60}, nil)

	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/public/services").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/public/availability?date=2030-06-17").Code)

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")

	// no admin credentials configured
	assert.Equal(t, http.StatusNotFound, get(r, "/api/admin/audit-logs").Code)
}

func TestRegisterRoutesWithoutMetrics(t *testing.T) {
	r := newEngine(t, &config.Config{RateLimitPerMinute: 60}, nil)

	assert.Equal(t, http.StatusNotFound, get(r, "/metrics").Code)
}

type emptyAuditLogs struct{}

func (emptyAuditLogs) List(context.Context, audit.Filter) ([]models.AuditLog, int64, error) {
	return nil, 0, nil
}

func TestAdminRoutesNeedCredentials(t *testing.T) {
	cfg := &config.Config{RateLimitPerMinute: 60, AdminUser: "dono", AdminPassword: "segredo"}
	r := newEngine(t, cfg, emptyAuditLogs{})

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/admin/audit-logs").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/audit-logs", nil)
	req.SetBasicAuth("dono", "segredo")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
