package sale

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type SaveDraftInput struct {
	ReservationID uint
	ClientName    string
	BarberID      *uint
	Items         []domain.DraftLine
}

// Drafts manages the basket staged against a reservation before checkout.
type Drafts struct {
	repo domain.DraftRepository
}

func NewDrafts(repo domain.DraftRepository) *Drafts {
	return &Drafts{repo: repo}
}

func (uc *Drafts) Save(ctx context.Context, in SaveDraftInput) (*models.DraftSale, error) {
	if in.ReservationID == 0 {
		return nil, httperr.Validation("missing_fields", "reservation_id is required")
	}

	total := decimal.Zero
	items := make([]models.DraftSaleItem, 0, len(in.Items))
	for i, l := range in.Items {
		itemType := strings.ToLower(strings.TrimSpace(l.ItemType))
		if itemType != models.ItemTypeService && itemType != models.ItemTypeProduct {
			return nil, httperr.Validation("invalid_item_type", fmt.Sprintf("items[%d].item_type must be service or product", i))
		}
		if l.ItemID == 0 {
			return nil, httperr.Validation("invalid_item", fmt.Sprintf("items[%d].item_id is required", i))
		}
		if l.Quantity < 1 {
			return nil, httperr.Validation("invalid_quantity", fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
		if l.Price.IsNegative() {
			return nil, httperr.Validation("invalid_price", fmt.Sprintf("items[%d].price cannot be negative", i))
		}

		price := l.Price.Round(2)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		items = append(items, models.DraftSaleItem{
			CatalogItemID: l.ItemID,
			ItemType:      itemType,
			Quantity:      l.Quantity,
			PriceAtDraft:  price,
		})
	}

	d := &models.DraftSale{
		ReservationID: in.ReservationID,
		ClientName:    strings.TrimSpace(in.ClientName),
		BarberID:      in.BarberID,
		TotalAmount:   total.Round(2),
		Items:         items,
	}
	if err := uc.repo.Upsert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *Drafts) Get(ctx context.Context, reservationID uint) (*models.DraftSale, error) {
	return uc.repo.GetByReservation(ctx, reservationID)
}

func (uc *Drafts) Delete(ctx context.Context, reservationID uint) error {
	return uc.repo.DeleteByReservation(ctx, reservationID)
}
