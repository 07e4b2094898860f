package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AuditLogLister interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

// AuditLogsHandler lists the booking trail for the shop owner.
type AuditLogsHandler struct {
	lister AuditLogLister
	loc    *time.Location
	log    *zap.Logger
}

func NewAuditLogsHandler(lister AuditLogLister, loc *time.Location, log *zap.Logger) *AuditLogsHandler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditLogsHandler{lister: lister, loc: loc, log: log}
}

// List answers GET /api/admin/audit-logs?action&barber&slot&date&from&to&page&limit.
// date selects the slots of a day; from/to the days the events were recorded.
func (h *AuditLogsHandler) List(c *gin.Context) {
	f, ok := h.filterFrom(c)
	if !ok {
		httperr.BadRequest(c, "invalid_date", messageFor("invalid_date"))
		return
	}

	logs, total, err := h.lister.List(c.Request.Context(), f)
	if err != nil {
		h.log.Error("audit list failed", zap.Error(err))
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	f = f.Normalize()
	c.JSON(http.StatusOK, gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
		"logs":  logs,
	})
}

func (h *AuditLogsHandler) filterFrom(c *gin.Context) (audit.Filter, bool) {
	f := audit.Filter{
		Action: c.Query("action"),
		Barber: c.Query("barber"),
		SlotID: c.Query("slot"),
	}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	if v := c.Query("date"); v != "" {
		d, err := parseDateInShop(h.loc, v)
		if err != nil {
			return f, false
		}
		f.SlotDate = d.Format("2006-01-02")
	}
	if v := c.Query("from"); v != "" {
		d, err := parseDateInShop(h.loc, v)
		if err != nil {
			return f, false
		}
		f.From = d
	}
	if v := c.Query("to"); v != "" {
		d, err := parseDateInShop(h.loc, v)
		if err != nil {
			return f, false
		}
		// inclusive day
		f.To = d.AddDate(0, 0, 1)
	}
	return f, true
}
