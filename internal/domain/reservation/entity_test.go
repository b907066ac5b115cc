package reservation

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

func open() *models.Reservation {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	return &models.Reservation{
		ID: 1, ClientName: "Ana", Status: string(StatusPending),
		StartTime: start, EndTime: start.Add(30 * time.Minute),
	}
}

func status(s Status) *Status { return &s }

func TestApplyTransitions(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		kind httperr.Kind
		code string
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, 0, ""},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, 0, ""},
		{"completed through update", StatusPending, StatusCompleted, httperr.KindConflict, "use_complete_endpoint"},
		{"unknown status", StatusPending, Status("done"), httperr.KindValidation, "invalid_status"},
		{"cancelled is final", StatusCancelled, StatusPending, httperr.KindConflict, "invalid_state"},
		{"completed is final", StatusCompleted, StatusCancelled, httperr.KindConflict, "invalid_state"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := open()
			r.Status = string(tc.from)
			err := Apply(r, Patch{Status: status(tc.to)})
			if tc.code == "" {
				if err != nil || r.Status != string(tc.to) {
					t.Fatalf("got %v, status %s", err, r.Status)
				}
				return
			}
			if !httperr.Is(err, tc.kind, tc.code) {
				t.Fatalf("got %v, want %s", err, tc.code)
			}
		})
	}
}

func TestApplyValidatesWindow(t *testing.T) {
	r := open()
	early := r.StartTime.Add(-time.Hour)
	if err := Apply(r, Patch{EndTime: &early}); err != ErrInvalidWindow {
		t.Fatalf("got %v", err)
	}

	blank := "  "
	if err := Apply(open(), Patch{ClientName: &blank}); !httperr.Is(err, httperr.KindValidation, "invalid_client_name") {
		t.Fatalf("got %v", err)
	}
}

func TestCanComplete(t *testing.T) {
	if err := CanComplete(StatusConfirmed); err != nil {
		t.Fatal(err)
	}
	if err := CanComplete(StatusCompleted); err != ErrAlreadyCompleted {
		t.Fatalf("got %v", err)
	}
	if !httperr.Is(CanComplete(StatusCancelled), httperr.KindConflict, "invalid_state") {
		t.Fatal("cancelled must not complete")
	}
}
