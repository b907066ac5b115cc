package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	reservationDomain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *SaleGormRepository) Tx(ctx context.Context, fn func(tx domain.Tx) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&saleTx{db: tx})
	})
	return translate(err, nil)
}

type saleTx struct {
	db *gorm.DB
}

func (t *saleTx) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := t.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, translate(err, reservationDomain.ErrNotFound)
	}
	return &res, nil
}

func (t *saleTx) CompleteReservation(ctx context.Context, id uint) (bool, error) {
	from := make([]string, 0, len(reservationDomain.Completable))
	for _, s := range reservationDomain.Completable {
		from = append(from, string(s))
	}

	res := t.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{
			"status":     string(reservationDomain.StatusCompleted),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, translate(res.Error, nil)
	}
	return res.RowsAffected == 1, nil
}

func (t *saleTx) GetCatalogItems(ctx context.Context, ids []uint) (map[uint]*models.CatalogItem, error) {
	out := make(map[uint]*models.CatalogItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.CatalogItem
	if err := t.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, translate(err, nil)
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func (t *saleTx) DecrementStock(ctx context.Context, productID uint, qty int) (bool, error) {
	res := t.db.WithContext(ctx).
		Model(&models.CatalogItem{}).
		Where("id = ? AND type = ? AND stock_quantity >= ?", productID, models.ItemTypeProduct, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, translate(res.Error, nil)
	}
	return res.RowsAffected == 1, nil
}

func (t *saleTx) InsertSale(ctx context.Context, s *models.Sale) error {
	err := t.db.WithContext(ctx).
		Omit("Reservation", "Barber", "Station", "Items.CatalogItem").
		Create(s).Error
	if IsUniqueViolation(err) && s.ReservationID != nil {
		return reservationDomain.ErrAlreadyCompleted
	}
	return translate(err, nil)
}

func (t *saleTx) DeleteDraftSale(ctx context.Context, reservationID uint) error {
	err := t.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.DraftSale{}).Error
	return translate(err, nil)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *SaleGormRepository) List(ctx context.Context, p *domain.Period) ([]models.Sale, error) {
	q := r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
	if p != nil {
		q = q.Where("sale_date >= ? AND sale_date < ?", p.From, p.To)
	}

	var sales []models.Sale
	if err := q.Order("sale_date DESC, id DESC").Find(&sales).Error; err != nil {
		return nil, translate(err, nil)
	}
	return sales, nil
}

func (r *SaleGormRepository) GetByReservation(ctx context.Context, reservationID uint) (*models.Sale, error) {
	var s models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("reservation_id = ?", reservationID).
		First(&s).Error
	if err != nil {
		return nil, translate(err, domain.ErrSaleNotFound)
	}
	return &s, nil
}

func (r *SaleGormRepository) DailyTotals(ctx context.Context, p domain.Period) ([]domain.DailyTotal, error) {
	var rows []domain.DailyTotal
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("to_char(sale_date, 'YYYY-MM-DD') AS date, SUM(total_amount) AS total").
		Where("sale_date >= ? AND sale_date < ?", p.From, p.To).
		Group("sale_date").
		Order("sale_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

func (r *SaleGormRepository) TotalsByService(ctx context.Context, p domain.Period) ([]domain.ServiceTotal, error) {
	var rows []domain.ServiceTotal
	err := r.db.WithContext(ctx).
		Table("sale_items AS si").
		Select("si.item_name AS service_name, SUM(si.price_at_sale * si.quantity) AS total_sales").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Where("s.sale_date >= ? AND s.sale_date < ?", p.From, p.To).
		Group("si.item_name").
		Order("total_sales DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

func (r *SaleGormRepository) TotalsByPaymentMethod(ctx context.Context, p domain.Period) ([]domain.PaymentMethodTotal, error) {
	var rows []domain.PaymentMethodTotal
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("payment_method, SUM(total_amount) AS total_sales").
		Where("sale_date >= ? AND sale_date < ?", p.From, p.To).
		Group("payment_method").
		Order("total_sales DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

// Compile-time check
var _ domain.Ledger = (*SaleGormRepository)(nil)
