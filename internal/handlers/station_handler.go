package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	"github.com/BruksfildServices01/barber-pos/internal/infra/repository"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

var (
	errStationNotFound = httperr.NotFound("station_not_found", "station not found")
	errStationLimit    = httperr.Validation("station_limit_reached", "the shop cannot have more than 10 stations")
	errStationName     = httperr.Conflict("station_name_taken", "a station with that name already exists")
	errStationInUse    = httperr.Validation("station_in_use", "the station is assigned to a barber")
)

type StationHandler struct {
	db *gorm.DB
}

func NewStationHandler(db *gorm.DB) *StationHandler {
	return &StationHandler{db: db}
}

type StationRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *StationHandler) List(c *gin.Context) {
	var stations []models.Station
	if err := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&stations).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}
	httpresp.List(c, stations)
}

func (h *StationHandler) Create(c *gin.Context) {
	var req StationRequest
	if !bindJSON(c, &req) {
		return
	}

	st := models.Station{Name: strings.TrimSpace(req.Name)}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Station{}).Count(&n).Error; err != nil {
			return err
		}
		if n >= models.MaxStations {
			return errStationLimit
		}
		return tx.Create(&st).Error
	})
	if err != nil {
		httperr.Respond(c, stationError(err))
		return
	}

	httpresp.Created(c, st)
}

func (h *StationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req StationRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	var st models.Station
	if err := h.db.WithContext(ctx).First(&st, id).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, errStationNotFound))
		return
	}

	st.Name = strings.TrimSpace(req.Name)
	if err := h.db.WithContext(ctx).Save(&st).Error; err != nil {
		httperr.Respond(c, stationError(err))
		return
	}

	httpresp.OK(c, st)
}

func (h *StationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var assigned int64
		if err := tx.Model(&models.Barber{}).Where("station_id = ?", id).Count(&assigned).Error; err != nil {
			return err
		}
		if assigned > 0 {
			return errStationInUse
		}

		res := tx.Delete(&models.Station{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errStationNotFound
		}
		return nil
	})
	if err != nil {
		httperr.Respond(c, stationError(err))
		return
	}

	httpresp.Message(c, "station deleted")
}

func stationError(err error) error {
	switch {
	case repository.IsUniqueViolation(err):
		return errStationName
	case repository.IsForeignKeyViolation(err):
		// Reservations and sales keep pointing at the chair.
		return errStationInUse
	}
	return repository.Translate(err, errStationNotFound)
}
