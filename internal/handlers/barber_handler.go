package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	"github.com/BruksfildServices01/barber-pos/internal/imaging"
	"github.com/BruksfildServices01/barber-pos/internal/infra/repository"
	"github.com/BruksfildServices01/barber-pos/internal/infra/storage"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
	payrollUC "github.com/BruksfildServices01/barber-pos/internal/usecase/payroll"
)

// Invalidator drops cached reports after a write that changes them.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

var (
	errBarberNotFound = httperr.NotFound("barber_not_found", "barber not found")
	errBarberInUse    = httperr.Validation("barber_in_use", "the barber has reservations or sales and cannot be deleted")
	errStationMissing = httperr.Validation("station_not_found", "station_id does not exist")
)

type BarberHandler struct {
	db       *gorm.DB
	advances *payrollUC.Advances
	photos   storage.ObjectStore
	cache    Invalidator
	loc      *time.Location
}

func NewBarberHandler(
	db *gorm.DB,
	advances *payrollUC.Advances,
	photos storage.ObjectStore,
	cache Invalidator,
	loc *time.Location,
) *BarberHandler {
	return &BarberHandler{
		db:       db,
		advances: advances,
		photos:   photos,
		cache:    cache,
		loc:      loc,
	}
}

// --------- Requests ---------

type CreateBarberRequest struct {
	Name       string           `json:"name" binding:"required"`
	Email      string           `json:"email" binding:"omitempty,email"`
	StationID  *uint            `json:"station_id"`
	BaseSalary *decimal.Decimal `json:"base_salary"`
}

type UpdateBarberRequest struct {
	Name       *string          `json:"name"`
	Email      *string          `json:"email" binding:"omitempty,email"`
	StationID  *uint            `json:"station_id"`
	BaseSalary *decimal.Decimal `json:"base_salary"`
}

type CreateAdvanceRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	AdvanceDate string          `json:"advance_date" binding:"required"`
	Note        string          `json:"note"`
}

// --------- Handlers ---------

func (h *BarberHandler) List(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Station").
		Order("name ASC").
		Find(&barbers).Error; err != nil {

		httperr.Respond(c, repository.Translate(err, nil))
		return
	}
	httpresp.List(c, barbers)
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.checkStation(ctx, req.StationID); err != nil {
		httperr.Respond(c, err)
		return
	}

	barber := models.Barber{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		StationID:  req.StationID,
		BaseSalary: models.DefaultBaseSalary,
	}
	if req.BaseSalary != nil {
		if req.BaseSalary.IsNegative() {
			httperr.BadRequest(c, "invalid_base_salary", "base_salary cannot be negative")
			return
		}
		barber.BaseSalary = req.BaseSalary.Round(2)
	}

	if err := h.db.WithContext(ctx).Omit("Station").Create(&barber).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	h.cache.Invalidate(ctx)
	httpresp.Created(c, barber)
}

func (h *BarberHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	barber, err := h.load(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if req.Name != nil {
		barber.Name = strings.TrimSpace(*req.Name)
		if barber.Name == "" {
			httperr.BadRequest(c, "missing_fields", "name cannot be empty")
			return
		}
	}
	if req.Email != nil {
		barber.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.StationID != nil {
		if err := h.checkStation(ctx, req.StationID); err != nil {
			httperr.Respond(c, err)
			return
		}
		barber.StationID = req.StationID
	}
	if req.BaseSalary != nil {
		if req.BaseSalary.IsNegative() {
			httperr.BadRequest(c, "invalid_base_salary", "base_salary cannot be negative")
			return
		}
		barber.BaseSalary = req.BaseSalary.Round(2)
	}

	barber.Station = nil
	if err := h.db.WithContext(ctx).Omit("Station").Save(barber).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	h.cache.Invalidate(ctx)
	httpresp.OK(c, barber)
}

func (h *BarberHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	res := h.db.WithContext(ctx).Delete(&models.Barber{}, id)
	if repository.IsForeignKeyViolation(res.Error) {
		httperr.Respond(c, errBarberInUse)
		return
	}
	if res.Error != nil {
		httperr.Respond(c, repository.Translate(res.Error, nil))
		return
	}
	if res.RowsAffected == 0 {
		httperr.Respond(c, errBarberNotFound)
		return
	}

	h.cache.Invalidate(ctx)
	httpresp.Message(c, "barber deleted")
}

// UploadPhoto stores the multipart "photo" field as a 512px webp and
// points the barber's photo_url at it.
func (h *BarberHandler) UploadPhoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	barber, err := h.load(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "multipart field photo is required")
		return
	}
	if fh.Size > imaging.MaxUploadBytes {
		httperr.Respond(c, httperr.Validation("invalid_image_size", "image must be between 1 byte and 5 MB"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, imaging.ErrInvalidImage)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, imaging.MaxUploadBytes+1))
	if err != nil {
		httperr.Respond(c, imaging.ErrInvalidImage)
		return
	}

	webpBytes, err := imaging.ToWebP(raw)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	url, err := h.photos.Put(ctx, fmt.Sprintf("barbers/%d.webp", barber.ID), imaging.ContentType, webpBytes)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", barber.ID).
		Update("photo_url", url).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	barber.PhotoURL = url
	httpresp.OK(c, barber)
}

// --------- Advances ---------

func (h *BarberHandler) ListAdvances(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	from, to, hasRange, err := dateRange(c, h.loc, false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var fromP, toP *time.Time
	if hasRange {
		fromP, toP = &from, &to
	}

	list, err := h.advances.List(c.Request.Context(), id, fromP, toP)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *BarberHandler) CreateAdvance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateAdvanceRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := timezone.ParseDate(req.AdvanceDate, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "advance_date must use YYYY-MM-DD")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.load(ctx, id); err != nil {
		httperr.Respond(c, err)
		return
	}

	a, err := h.advances.Record(ctx, payrollUC.RecordAdvanceInput{
		BarberID:    id,
		Amount:      req.Amount,
		AdvanceDate: date,
		Note:        req.Note,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, a)
}

// --------- Helpers ---------

func (h *BarberHandler) load(ctx context.Context, id uint) (*models.Barber, error) {
	var b models.Barber
	if err := h.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, repository.Translate(err, errBarberNotFound)
	}
	return &b, nil
}

func (h *BarberHandler) checkStation(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := h.db.WithContext(ctx).Model(&models.Station{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return repository.Translate(err, nil)
	}
	if n == 0 {
		return errStationMissing
	}
	return nil
}
