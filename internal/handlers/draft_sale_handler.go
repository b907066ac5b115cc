package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	saleUC "github.com/BruksfildServices01/barber-pos/internal/usecase/sale"
)

type DraftSaleHandler struct {
	drafts *saleUC.Drafts
}

func NewDraftSaleHandler(drafts *saleUC.Drafts) *DraftSaleHandler {
	return &DraftSaleHandler{drafts: drafts}
}

type DraftItemRequest struct {
	ItemID   uint            `json:"item_id"`
	ItemType string          `json:"item_type"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type SaveDraftRequest struct {
	ReservationID uint               `json:"reservation_id"`
	ClientName    string             `json:"client_name"`
	BarberID      *uint              `json:"barber_id"`
	Items         []DraftItemRequest `json:"items"`
}

// Save upserts the draft of a reservation; the items are replaced wholesale.
func (h *DraftSaleHandler) Save(c *gin.Context) {
	var req SaveDraftRequest
	if !bindJSON(c, &req) {
		return
	}

	in := saleUC.SaveDraftInput{
		ReservationID: req.ReservationID,
		ClientName:    req.ClientName,
		BarberID:      req.BarberID,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, domain.DraftLine{
			ItemID:   it.ItemID,
			ItemType: it.ItemType,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	d, err := h.drafts.Save(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, d)
}

func (h *DraftSaleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "reservationId")
	if !ok {
		return
	}

	d, err := h.drafts.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, d)
}

func (h *DraftSaleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "reservationId")
	if !ok {
		return
	}

	if err := h.drafts.Delete(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "draft sale deleted")
}
