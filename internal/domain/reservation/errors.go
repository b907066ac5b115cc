package reservation

import "github.com/BruksfildServices01/barber-pos/internal/httperr"

var (
	ErrNotFound         = httperr.NotFound("reservation_not_found", "reservation not found")
	ErrAlreadyCompleted = httperr.Conflict("already_completed", "reservation is already completed")
	ErrHasSale          = httperr.Conflict("reservation_has_sale", "a reservation with a recorded sale cannot be deleted")
	ErrInvalidWindow    = httperr.Validation("invalid_time_range", "end_time must be after start_time")
)
