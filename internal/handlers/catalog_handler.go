package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	"github.com/BruksfildServices01/barber-pos/internal/infra/repository"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	reportUC "github.com/BruksfildServices01/barber-pos/internal/usecase/report"
)

var (
	errCatalogNotFound = httperr.NotFound("catalog_item_not_found", "service or product not found")
	errCatalogInUse    = httperr.Validation("catalog_item_in_use", "the item appears in recorded sales and cannot be deleted")
	errNegativePrice   = httperr.Validation("invalid_price", "price cannot be negative")
	errNegativeMinutes = httperr.Validation("invalid_duration", "duration_minutes cannot be negative")
	errNegativeStock   = httperr.Validation("invalid_stock", "stock quantities cannot be negative")
)

// CatalogHandler serves the services and products sold at the shop. Both
// live in one table told apart by type.
type CatalogHandler struct {
	db      *gorm.DB
	reports *reportUC.Reports
	cache   Invalidator
}

func NewCatalogHandler(db *gorm.DB, reports *reportUC.Reports, cache Invalidator) *CatalogHandler {
	return &CatalogHandler{db: db, reports: reports, cache: cache}
}

// --------- Requests ---------

type CreateCatalogItemRequest struct {
	Name            string          `json:"name" binding:"required"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	Type            string          `json:"type" binding:"omitempty,item_type"`
	StockQuantity   int             `json:"stock_quantity"`
	MinStockLevel   int             `json:"min_stock_level"`
}

type UpdateCatalogItemRequest struct {
	Name            *string          `json:"name"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes *int             `json:"duration_minutes"`
	Type            *string          `json:"type" binding:"omitempty,item_type"`
	StockQuantity   *int             `json:"stock_quantity"`
	MinStockLevel   *int             `json:"min_stock_level"`
}

type UpdateStockRequest struct {
	StockQuantity *int `json:"stock_quantity" binding:"required"`
	MinStockLevel *int `json:"min_stock_level"`
}

// --------- Services ---------

func (h *CatalogHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	if t := strings.ToLower(strings.TrimSpace(c.Query("type"))); t != "" {
		q = q.Where("type = ?", t)
	}

	var items []models.CatalogItem
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}
	httpresp.List(c, items)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req CreateCatalogItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item := models.CatalogItem{
		Name:            strings.TrimSpace(req.Name),
		Price:           req.Price.Round(2),
		DurationMinutes: req.DurationMinutes,
		Type:            strings.ToLower(req.Type),
		StockQuantity:   req.StockQuantity,
		MinStockLevel:   req.MinStockLevel,
	}
	if item.Type == "" {
		item.Type = models.ItemTypeService
	}

	if err := validateCatalogItem(&item); err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Create(&item).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	h.cache.Invalidate(ctx)
	httpresp.Created(c, item)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCatalogItemRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	item, err := h.load(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		item.Price = req.Price.Round(2)
	}
	if req.DurationMinutes != nil {
		item.DurationMinutes = *req.DurationMinutes
	}
	if req.Type != nil {
		item.Type = strings.ToLower(*req.Type)
	}
	if req.StockQuantity != nil {
		item.StockQuantity = *req.StockQuantity
	}
	if req.MinStockLevel != nil {
		item.MinStockLevel = *req.MinStockLevel
	}

	if err := validateCatalogItem(item); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(ctx).Save(item).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	h.cache.Invalidate(ctx)
	httpresp.OK(c, item)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&models.SaleItem{}).Where("service_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return errCatalogInUse
		}

		res := tx.Delete(&models.CatalogItem{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errCatalogNotFound
		}
		return nil
	})
	if repository.IsForeignKeyViolation(err) {
		err = errCatalogInUse
	}
	if err != nil {
		httperr.Respond(c, repository.Translate(err, errCatalogNotFound))
		return
	}

	h.cache.Invalidate(ctx)
	httpresp.Message(c, "item deleted")
}

// --------- Products ---------

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var items []models.CatalogItem
	if err := h.db.WithContext(c.Request.Context()).
		Where("type = ?", models.ItemTypeProduct).
		Order("name ASC").
		Find(&items).Error; err != nil {

		httperr.Respond(c, repository.Translate(err, nil))
		return
	}
	httpresp.List(c, items)
}

func (h *CatalogHandler) LowStock(c *gin.Context) {
	var items []models.CatalogItem
	if err := h.db.WithContext(c.Request.Context()).
		Where("type = ? AND stock_quantity <= min_stock_level", models.ItemTypeProduct).
		Order("stock_quantity ASC, name ASC").
		Find(&items).Error; err != nil {

		httperr.Respond(c, repository.Translate(err, nil))
		return
	}
	httpresp.List(c, items)
}

func (h *CatalogHandler) UpdateStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStockRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	item, err := h.load(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !item.IsProduct() {
		httperr.BadRequest(c, "not_a_product", "only products carry stock")
		return
	}

	item.StockQuantity = *req.StockQuantity
	if req.MinStockLevel != nil {
		item.MinStockLevel = *req.MinStockLevel
	}
	if err := validateCatalogItem(item); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(ctx).
		Model(item).
		Updates(map[string]any{
			"stock_quantity":  item.StockQuantity,
			"min_stock_level": item.MinStockLevel,
		}).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	h.cache.Invalidate(ctx)
	httpresp.OK(c, item)
}

func (h *CatalogHandler) InventorySummary(c *gin.Context) {
	out, err := h.reports.InventorySummary(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

// --------- Helpers ---------

func (h *CatalogHandler) load(ctx context.Context, id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := h.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, repository.Translate(err, errCatalogNotFound)
	}
	return &item, nil
}

func validateCatalogItem(item *models.CatalogItem) error {
	switch {
	case item.Name == "":
		return httperr.Validation("missing_fields", "name is required")
	case item.Price.IsNegative():
		return errNegativePrice
	case item.DurationMinutes < 0:
		return errNegativeMinutes
	case item.StockQuantity < 0, item.MinStockLevel < 0:
		return errNegativeStock
	}
	return nil
}
