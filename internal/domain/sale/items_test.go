package sale

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

func catalog() map[uint]*models.CatalogItem {
	return map[uint]*models.CatalogItem{
		1: {ID: 1, Name: "Corte", Price: decimal.NewFromInt(30), Type: models.ItemTypeService},
		2: {ID: 2, Name: "Cera", Price: decimal.RequireFromString("12.50"), Type: models.ItemTypeProduct},
	}
}

func TestBuildItems(t *testing.T) {
	override := decimal.NewFromInt(25)
	items, total, err := BuildItems([]Line{
		{ItemID: 1, Quantity: 1, Price: &override},
		{ItemID: 2, Quantity: 2},
		{ItemID: 2, Quantity: 1},
	}, catalog())
	if err != nil {
		t.Fatal(err)
	}
	if !total.Equal(decimal.RequireFromString("62.5")) {
		t.Fatalf("total = %s", total)
	}
	if items[0].ItemName != "Corte" || !items[0].PriceAtSale.Equal(override) {
		t.Fatalf("first item = %+v", items[0])
	}
	if q := ProductQuantities(items); q[2] != 3 || len(q) != 1 {
		t.Fatalf("product quantities = %v", q)
	}
}

func TestBuildItemsRejects(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	cases := []struct {
		name  string
		lines []Line
		code  string
	}{
		{"empty", nil, "empty_items"},
		{"zero quantity", []Line{{ItemID: 1}}, "invalid_quantity"},
		{"unknown item", []Line{{ItemID: 9, Quantity: 1}}, "catalog_item_not_found"},
		{"negative price", []Line{{ItemID: 1, Quantity: 1, Price: &neg}}, "invalid_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := BuildItems(tc.lines, catalog())
			if !httperr.Is(err, httperr.KindValidation, tc.code) {
				t.Fatalf("got %v, want %s", err, tc.code)
			}
		})
	}
}

func TestCheckClaimedTotal(t *testing.T) {
	computed := decimal.RequireFromString("42.50")
	ok := decimal.RequireFromString("42.5")
	bad := decimal.RequireFromString("40")

	if err := CheckClaimedTotal(nil, computed); err != nil {
		t.Fatal(err)
	}
	if err := CheckClaimedTotal(&ok, computed); err != nil {
		t.Fatal(err)
	}
	if err := CheckClaimedTotal(&bad, computed); err != ErrTotalMismatch {
		t.Fatalf("got %v", err)
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	if m, err := NormalizePaymentMethod(""); err != nil || m != models.PaymentCash {
		t.Fatalf("got %q %v", m, err)
	}
	if m, err := NormalizePaymentMethod(" YAPE "); err != nil || m != models.PaymentYape {
		t.Fatalf("got %q %v", m, err)
	}
	if _, err := NormalizePaymentMethod("cheque"); err == nil {
		t.Fatal("unknown method must be rejected")
	}
}
