package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/summary"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// CardPublisher stores a rendered summary card and returns its URL.
type CardPublisher interface {
	Publish(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicDeps struct {
	Catalog   *domain.Catalog
	Resolver  *ucBooking.Resolver
	Booker    *ucBooking.Booker
	Canceller *ucBooking.Canceller
	Lookup    *ucBooking.Lookup
	Renderer  *summary.Renderer
	// Publisher is optional.
	Publisher CardPublisher
	Location  *time.Location
	Log       *zap.Logger
}

type PublicHandler struct {
	PublicDeps
}

func NewPublicHandler(deps PublicDeps) *PublicHandler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &PublicHandler{PublicDeps: deps}
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	httpresp.List(c, h.Catalog.Services())
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	httpresp.OK(c, dto.BarbersResponse{
		Barbers:        h.Catalog.Barbers(),
		NoPreference:   domain.NoPreference,
		VisagismBarber: h.Catalog.VisagismBarber(),
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_fields", "Data obrigatória.")
		return
	}

	date, err := parseDateInShop(h.Location, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", messageFor("invalid_date"))
		return
	}

	view, err := h.Resolver.Day(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	httpresp.OK(c, view)
}

////////////////////////////////////////////////////////
// BOOK
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", messageFor("invalid_request"))
		return
	}

	date, err := parseDateInShop(h.Location, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", messageFor("invalid_date"))
		return
	}

	out, err := h.Booker.Execute(c.Request.Context(), ucBooking.BookInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Date:     date,
		Time:     req.Time,
		Barber:   req.Barber,
		Services: req.Services,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	resp := dto.BookResponse{
		ID:           out.SubBooking.ID,
		SlotID:       out.Key.ID(),
		Barber:       out.Barber,
		Date:         out.Key.DateString(),
		Time:         out.Key.Time,
		Services:     out.SubBooking.Services,
		Total:        out.Total,
		Status:       out.Record.Status,
		Merged:       out.Merged,
		ComboBlocked: out.ComboBlocked,
		Warnings:     out.Warnings,
		CreatedAt:    out.SubBooking.CreatedAt,
	}

	if h.Publisher != nil {
		url, err := h.publishCard(c.Request.Context(), summary.Card{
			ID:       out.SubBooking.ID,
			Name:     out.SubBooking.CustomerName,
			Date:     out.Key.Date,
			Time:     out.Key.Time,
			Barber:   out.Barber,
			Services: out.SubBooking.Services,
		})
		if err != nil {
			h.Log.Warn("summary upload failed", zap.String("slot", out.Key.ID()), zap.Error(err))
			resp.Warnings = append(resp.Warnings, "summary_upload_failed")
		}
		resp.SummaryURL = url
	}

	httpresp.Created(c, resp)
}

func (h *PublicHandler) publishCard(ctx context.Context, card summary.Card) (string, error) {
	data, err := h.Renderer.Render(card)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("resumos/%s/%s%s", card.Date.Format("2006-01-02"), card.ID, h.Renderer.Extension())
	return h.Publisher.Publish(ctx, key, data, h.Renderer.ContentType())
}

////////////////////////////////////////////////////////
// CANCEL
////////////////////////////////////////////////////////

func (h *PublicHandler) CancelAppointment(c *gin.Context) {
	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", messageFor("invalid_request"))
		return
	}

	date, err := parseDateInShop(h.Location, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", messageFor("invalid_date"))
		return
	}

	out, err := h.Canceller.Execute(c.Request.Context(), ucBooking.CancelInput{
		Date:   date,
		Time:   req.Time,
		Barber: req.Barber,
		Phone:  req.Phone,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	resp := dto.CancelResponse{
		SlotID:    out.Key.ID(),
		Deleted:   out.Deleted,
		Unblocked: out.Unblocked,
		Warnings:  out.Warnings,
	}
	for _, b := range out.Cancelled {
		resp.Cancelled = append(resp.Cancelled, dto.CancelledBooking{
			ID:       b.ID,
			Name:     b.CustomerName,
			Services: b.Services,
		})
	}

	httpresp.OK(c, resp)
}

////////////////////////////////////////////////////////
// SUMMARY CARD
////////////////////////////////////////////////////////

func (h *PublicHandler) Summary(c *gin.Context) {
	date, err := parseDateInShop(h.Location, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", messageFor("invalid_date"))
		return
	}

	out, err := h.Lookup.Execute(c.Request.Context(), ucBooking.LookupInput{
		Date:   date,
		Time:   c.Query("time"),
		Barber: c.Query("barber"),
		Phone:  c.Query("phone"),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	mine := out.Mine[0]
	var services []string
	for _, b := range out.Mine {
		services = append(services, b.Services...)
	}

	data, err := h.Renderer.Render(summary.Card{
		ID:       mine.ID,
		Name:     mine.CustomerName,
		Date:     out.Key.Date,
		Time:     out.Key.Time,
		Barber:   out.Key.Barber,
		Services: services,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="resumo_agendamento%s"`, h.Renderer.Extension()))
	c.Data(http.StatusOK, h.Renderer.ContentType(), data)
}
