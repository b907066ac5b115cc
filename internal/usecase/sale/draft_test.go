package sale

import (
	"context"
	"testing"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
)

func TestDraftUpsertReplacesItems(t *testing.T) {
	st := seedStore()
	uc := NewDrafts(st.DraftSales())
	ctx := context.Background()

	first, err := uc.Save(ctx, SaveDraftInput{
		ReservationID: 7,
		ClientName:    "Ana",
		Items: []domain.DraftLine{
			{ItemID: 1, ItemType: "service", Quantity: 1, Price: dec("30")},
			{ItemID: 2, ItemType: "product", Quantity: 2, Price: dec("12.5")},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !first.TotalAmount.Equal(dec("55")) {
		t.Fatalf("total = %s", first.TotalAmount)
	}

	second, err := uc.Save(ctx, SaveDraftInput{
		ReservationID: 7,
		Items:         []domain.DraftLine{{ItemID: 1, ItemType: "SERVICE", Quantity: 1, Price: dec("30")}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatal("upsert must keep one draft per reservation")
	}

	got, err := uc.Get(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 || !got.TotalAmount.Equal(dec("30")) {
		t.Fatalf("unexpected draft: %+v", got)
	}

	if err := uc.Delete(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Get(ctx, 7); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("after delete: got %v", err)
	}
}

func TestDraftValidation(t *testing.T) {
	st := seedStore()
	uc := NewDrafts(st.DraftSales())

	cases := map[string]SaveDraftInput{
		"invalid_item_type": {ReservationID: 7, Items: []domain.DraftLine{{ItemID: 1, ItemType: "gift", Quantity: 1}}},
		"invalid_quantity":  {ReservationID: 7, Items: []domain.DraftLine{{ItemID: 1, ItemType: "service", Quantity: 0}}},
		"invalid_price":     {ReservationID: 7, Items: []domain.DraftLine{{ItemID: 1, ItemType: "service", Quantity: 1, Price: dec("-2")}}},
		"missing_fields":    {Items: nil},
	}
	for code, in := range cases {
		if _, err := uc.Save(context.Background(), in); !httperr.Is(err, httperr.KindValidation, code) {
			t.Errorf("%s: got %v", code, err)
		}
	}
}
