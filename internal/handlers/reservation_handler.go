package handlers

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-pos/internal/dto"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	"github.com/BruksfildServices01/barber-pos/internal/middleware"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
	reservationUC "github.com/BruksfildServices01/barber-pos/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	create   *reservationUC.CreateReservation
	get      *reservationUC.GetReservation
	list     *reservationUC.ListReservations
	count    *reservationUC.CountReservations
	update   *reservationUC.UpdateReservation
	delete   *reservationUC.DeleteReservation
	complete *reservationUC.CompleteReservation
	loc      *time.Location
}

type ReservationUseCases struct {
	Create   *reservationUC.CreateReservation
	Get      *reservationUC.GetReservation
	List     *reservationUC.ListReservations
	Count    *reservationUC.CountReservations
	Update   *reservationUC.UpdateReservation
	Delete   *reservationUC.DeleteReservation
	Complete *reservationUC.CompleteReservation
}

func NewReservationHandler(uc ReservationUseCases, loc *time.Location) *ReservationHandler {
	return &ReservationHandler{
		create:   uc.Create,
		get:      uc.Get,
		list:     uc.List,
		count:    uc.Count,
		update:   uc.Update,
		delete:   uc.Delete,
		complete: uc.Complete,
		loc:      loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	BarberID    uint   `json:"barber_id" binding:"required"`
	StationID   uint   `json:"station_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// UpdateReservationRequest is a partial update; absent fields are kept.
type UpdateReservationRequest struct {
	BarberID    *uint   `json:"barber_id"`
	StationID   *uint   `json:"station_id"`
	ServiceID   *uint   `json:"service_id"`
	ClientName  *string `json:"client_name"`
	ClientPhone *string `json:"client_phone"`
	ClientEmail *string `json:"client_email"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

type CompleteReservationRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,payment_method"`
}

func (h *ReservationHandler) parseTime(field, raw string) (time.Time, error) {
	t, err := timezone.ParseDateTime(raw, h.loc)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_field_type", field+" must be a valid date-time string")
	}
	return t, nil
}

func (h *ReservationHandler) toPatch(req UpdateReservationRequest) (domain.Patch, error) {
	p := domain.Patch{
		BarberID:    req.BarberID,
		StationID:   req.StationID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
	}

	if req.StartTime != nil {
		t, err := h.parseTime("start_time", *req.StartTime)
		if err != nil {
			return p, err
		}
		p.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := h.parseTime("end_time", *req.EndTime)
		if err != nil {
			return p, err
		}
		p.EndTime = &t
	}
	if req.Status != nil {
		s := domain.Status(strings.ToLower(strings.TrimSpace(*req.Status)))
		p.Status = &s
	}
	return p, nil
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := h.parseTime("start_time", req.StartTime)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	end, err := h.parseTime("end_time", req.EndTime)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	res, err := h.create.Execute(c.Request.Context(), middleware.Actor(c), reservationUC.CreateReservationInput{
		BarberID:    req.BarberID,
		StationID:   req.StationID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		StartTime:   start,
		EndTime:     end,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, res)
}

func (h *ReservationHandler) List(c *gin.Context) {
	from, to, ok, err := dateRange(c, h.loc, false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	f := domain.Filter{}
	if ok {
		f.From, f.To = &from, &to
	}

	list, err := h.list.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *ReservationHandler) ListCompleted(c *gin.Context) {
	from, to, _, err := dateRange(c, h.loc, true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	list, err := h.list.Execute(c.Request.Context(), domain.Filter{From: &from, To: &to, Status: domain.StatusCompleted})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *ReservationHandler) Count(c *gin.Context) {
	h.countWith(c, "")
}

func (h *ReservationHandler) CountCompleted(c *gin.Context) {
	h.countWith(c, domain.StatusCompleted)
}

func (h *ReservationHandler) countWith(c *gin.Context, status domain.Status) {
	from, to, _, err := dateRange(c, h.loc, true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	n, err := h.count.Execute(c.Request.Context(), domain.Filter{From: &from, To: &to, Status: status})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.CountResponse{Count: n})
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	patch, err := h.toPatch(req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	res, err := h.update.Execute(c.Request.Context(), middleware.Actor(c), id, patch)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "reservation deleted")
}

func (h *ReservationHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// The body is optional.
	var req CompleteReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.Respond(c, bindError(err))
		return
	}

	out, err := h.complete.Execute(c.Request.Context(), middleware.Actor(c), id, req.PaymentMethod)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.CompleteReservationResponse{
		Message: "reservation completed and sale recorded",
		Sale:    out.Sale,
	})
}
