package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

var errDraftNotFound = httperr.NotFound("draft_sale_not_found", "draft sale not found for this reservation")

type DraftSaleGormRepository struct {
	db *gorm.DB
}

func NewDraftSaleGormRepository(db *gorm.DB) *DraftSaleGormRepository {
	return &DraftSaleGormRepository{db: db}
}

// Upsert keeps one draft per reservation: the header is updated in place
// and the items are replaced wholesale.
func (r *DraftSaleGormRepository) Upsert(ctx context.Context, d *models.DraftSale) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var existing models.DraftSale
		err := tx.Where("reservation_id = ?", d.ReservationID).First(&existing).Error

		switch {
		case err == nil:
			d.ID = existing.ID
			d.CreatedAt = existing.CreatedAt
			if err := tx.Model(&existing).Updates(map[string]any{
				"client_name":  d.ClientName,
				"barber_id":    d.BarberID,
				"total_amount": d.TotalAmount,
				"updated_at":   time.Now(),
			}).Error; err != nil {
				return err
			}
			if err := tx.Where("draft_sale_id = ?", d.ID).Delete(&models.DraftSaleItem{}).Error; err != nil {
				return err
			}

		case err == gorm.ErrRecordNotFound:
			items := d.Items
			d.Items = nil
			if err := tx.Omit("Reservation").Create(d).Error; err != nil {
				return err
			}
			d.Items = items

		default:
			return err
		}

		for i := range d.Items {
			d.Items[i].ID = 0
			d.Items[i].DraftSaleID = d.ID
		}
		if len(d.Items) > 0 {
			if err := tx.Create(&d.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if IsForeignKeyViolation(err) {
		return httperr.Validation("invalid_reference", "reservation_id or one of the items does not exist")
	}
	return translate(err, nil)
}

func (r *DraftSaleGormRepository) GetByReservation(ctx context.Context, reservationID uint) (*models.DraftSale, error) {
	var d models.DraftSale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("reservation_id = ?", reservationID).
		First(&d).Error
	if err != nil {
		return nil, translate(err, errDraftNotFound)
	}
	return &d, nil
}

func (r *DraftSaleGormRepository) DeleteByReservation(ctx context.Context, reservationID uint) error {
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.DraftSale{}).Error
	return translate(err, nil)
}

// Compile-time check
var _ domain.DraftRepository = (*DraftSaleGormRepository)(nil)
