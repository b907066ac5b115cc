package sale

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

var (
	ErrEmptyItems           = httperr.Validation("empty_items", "a sale needs at least one item")
	ErrTotalMismatch        = httperr.Validation("total_mismatch", "total_amount does not match the sum of the items")
	ErrCatalogItemNotFound  = httperr.Validation("catalog_item_not_found", "one of the items does not exist in the catalog")
	ErrInsufficientStock    = httperr.Conflict("insufficient_stock", "not enough stock for one of the products")
	ErrSaleNotFound         = httperr.NotFound("sale_not_found", "sale not found")
	ErrReservationCancelled = httperr.Conflict("invalid_state", "a cancelled reservation cannot be sold")
)

// Line is one requested line of a checkout. A nil Price means the current
// catalog price.
type Line struct {
	ItemID   uint
	Quantity int
	Price    *decimal.Decimal
}

// BuildItems turns requested lines into sale items priced at sale time.
// catalog must hold every referenced item.
func BuildItems(lines []Line, catalog map[uint]*models.CatalogItem) ([]models.SaleItem, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, ErrEmptyItems
	}

	items := make([]models.SaleItem, 0, len(lines))
	for i, l := range lines {
		if l.Quantity < 1 {
			return nil, decimal.Zero, httperr.Validation(
				"invalid_quantity",
				fmt.Sprintf("items[%d].quantity must be at least 1", i),
			)
		}

		ci, ok := catalog[l.ItemID]
		if !ok || ci == nil {
			return nil, decimal.Zero, ErrCatalogItemNotFound
		}

		price := ci.Price
		if l.Price != nil {
			if l.Price.IsNegative() {
				return nil, decimal.Zero, httperr.Validation(
					"invalid_price",
					fmt.Sprintf("items[%d].price_at_sale cannot be negative", i),
				)
			}
			price = *l.Price
		}

		items = append(items, models.SaleItem{
			CatalogItemID: ci.ID,
			ItemType:      ci.Type,
			ItemName:      ci.Name,
			PriceAtSale:   price.Round(2),
			Quantity:      l.Quantity,
		})
	}

	return items, Total(items), nil
}

// Total is Σ price_at_sale × quantity.
func Total(items []models.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}

// CheckClaimedTotal accepts a client-sent total only when it equals the
// computed one.
func CheckClaimedTotal(claimed *decimal.Decimal, computed decimal.Decimal) error {
	if claimed == nil {
		return nil
	}
	if !claimed.Round(2).Equal(computed) {
		return ErrTotalMismatch
	}
	return nil
}

// ProductQuantities sums quantities per product so stock is decremented
// once per product.
func ProductQuantities(items []models.SaleItem) map[uint]int {
	out := map[uint]int{}
	for _, it := range items {
		if it.ItemType == models.ItemTypeProduct {
			out[it.CatalogItemID] += it.Quantity
		}
	}
	return out
}
