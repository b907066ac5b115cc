package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

var errInvalidReference = httperr.Validation("invalid_reference", "barber_id, station_id or service_id does not exist")

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *ReservationGormRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reservations AS r").
		Select("r.*, b.name AS barber_name, st.name AS station_name, svc.name AS service_name").
		Joins("JOIN barbers b ON b.id = r.barber_id").
		Joins("JOIN stations st ON st.id = r.station_id").
		Joins("LEFT JOIN services svc ON svc.id = r.service_id")
}

func applyFilter(q *gorm.DB, col string, f domain.Filter) *gorm.DB {
	if f.From != nil {
		q = q.Where(col+".start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where(col+".start_time < ?", *f.To)
	}
	if f.Status != "" {
		q = q.Where(col+".status = ?", string(f.Status))
	}
	return q
}

func (r *ReservationGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	err := r.joined(ctx).Where("r.id = ?", id).Take(&res).Error
	if err != nil {
		return nil, translate(err, domain.ErrNotFound)
	}
	return &res, nil
}

func (r *ReservationGormRepository) List(
	ctx context.Context,
	f domain.Filter,
) ([]models.Reservation, error) {

	var list []models.Reservation
	err := applyFilter(r.joined(ctx), "r", f).
		Order("r.start_time DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return list, nil
}

func (r *ReservationGormRepository) Count(
	ctx context.Context,
	f domain.Filter,
) (int64, error) {

	var n int64
	q := r.db.WithContext(ctx).Table("reservations AS r")
	if err := applyFilter(q, "r", f).Count(&n).Error; err != nil {
		return 0, translate(err, nil)
	}
	return n, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (r *ReservationGormRepository) Create(
	ctx context.Context,
	res *models.Reservation,
) error {

	err := r.db.WithContext(ctx).
		Omit("Barber", "Station", "Service").
		Create(res).Error
	if IsForeignKeyViolation(err) {
		return errInvalidReference
	}
	return translate(err, nil)
}

// Update writes res only if the stored status still equals expected, so a
// concurrent completion is never overwritten by a stale edit.
func (r *ReservationGormRepository) Update(
	ctx context.Context,
	res *models.Reservation,
	expected domain.Status,
) error {

	tx := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", res.ID, string(expected)).
		Updates(map[string]any{
			"barber_id":    res.BarberID,
			"station_id":   res.StationID,
			"service_id":   res.ServiceID,
			"client_name":  res.ClientName,
			"client_phone": res.ClientPhone,
			"client_email": res.ClientEmail,
			"start_time":   res.StartTime,
			"end_time":     res.EndTime,
			"status":       res.Status,
			"notes":        res.Notes,
			"updated_at":   time.Now(),
		})

	if IsForeignKeyViolation(tx.Error) {
		return errInvalidReference
	}
	if tx.Error != nil {
		return translate(tx.Error, nil)
	}
	if tx.RowsAffected == 0 {
		return httperr.Conflict("reservation_changed", "the reservation changed while it was being edited, reload and retry")
	}
	return nil
}

func (r *ReservationGormRepository) Delete(
	ctx context.Context,
	id uint,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var sales int64
		if err := tx.Model(&models.Sale{}).
			Where("reservation_id = ?", id).
			Count(&sales).Error; err != nil {
			return err
		}
		if sales > 0 {
			return domain.ErrHasSale
		}

		if err := tx.
			Where("reservation_id = ?", id).
			Delete(&models.DraftSale{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Reservation{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})

	// A sale committed between the count and the delete trips the FK.
	if IsForeignKeyViolation(err) {
		return domain.ErrHasSale
	}
	return translate(err, nil)
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
