package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	"github.com/BruksfildServices01/barber-pos/internal/middleware"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
	saleUC "github.com/BruksfildServices01/barber-pos/internal/usecase/sale"
)

type SaleHandler struct {
	record    *saleUC.RecordSale
	list      *saleUC.ListSales
	summaries *saleUC.Summaries
	loc       *time.Location
}

func NewSaleHandler(
	record *saleUC.RecordSale,
	list *saleUC.ListSales,
	summaries *saleUC.Summaries,
	loc *time.Location,
) *SaleHandler {
	return &SaleHandler{
		record:    record,
		list:      list,
		summaries: summaries,
		loc:       loc,
	}
}

// --------- Requests ---------

type SaleItemRequest struct {
	ItemID      uint             `json:"item_id" binding:"required"`
	Quantity    int              `json:"quantity" binding:"min=1"`
	PriceAtSale *decimal.Decimal `json:"price_at_sale"`
}

type CreateSaleRequest struct {
	SaleDate      *string           `json:"sale_date"`
	Items         []SaleItemRequest `json:"items" binding:"dive"`
	TotalAmount   *decimal.Decimal  `json:"total_amount"`
	CustomerName  string            `json:"customer_name"`
	PaymentMethod string            `json:"payment_method" binding:"omitempty,payment_method"`
	ReservationID *uint             `json:"reservation_id"`
	BarberID      *uint             `json:"barber_id"`
	StationID     *uint             `json:"station_id"`
}

// --------- Handlers ---------

func (h *SaleHandler) Create(c *gin.Context) {
	var req CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	in := saleUC.RecordSaleInput{
		TotalAmount:   req.TotalAmount,
		CustomerName:  req.CustomerName,
		PaymentMethod: req.PaymentMethod,
		ReservationID: req.ReservationID,
		BarberID:      req.BarberID,
		StationID:     req.StationID,
	}

	if req.SaleDate != nil && strings.TrimSpace(*req.SaleDate) != "" {
		d, err := timezone.ParseDate(*req.SaleDate, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "sale_date must use YYYY-MM-DD")
			return
		}
		in.SaleDate = &d
	}

	for _, it := range req.Items {
		in.Items = append(in.Items, domain.Line{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Price:    it.PriceAtSale,
		})
	}

	s, err := h.record.Execute(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *SaleHandler) List(c *gin.Context) {
	list, err := h.list.All(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *SaleHandler) Filtered(c *gin.Context) {
	list, err := h.list.Filtered(c.Request.Context(), c.Query("filterType"), c.Query("filterValue"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *SaleHandler) ByReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	s, err := h.list.ByReservation(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

// --------- Summaries ---------

func (h *SaleHandler) period(c *gin.Context) (domain.Period, bool) {
	from, to, _, err := dateRange(c, h.loc, true)
	if err != nil {
		httperr.Respond(c, err)
		return domain.Period{}, false
	}
	return domain.Period{From: from, To: to}, true
}

func (h *SaleHandler) Summary(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	out, err := h.summaries.Daily(c.Request.Context(), p)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}

func (h *SaleHandler) SummaryByService(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	out, err := h.summaries.ByService(c.Request.Context(), p)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}

func (h *SaleHandler) SummaryByPaymentMethod(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	out, err := h.summaries.ByPaymentMethod(c.Request.Context(), p)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}
