package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	payroll "github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	"github.com/BruksfildServices01/barber-pos/internal/middleware"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type SettingStore interface {
	List(ctx context.Context) ([]models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, key, value string) error
}

type SettingHandler struct {
	store SettingStore
	cache Invalidator
	audit audit.Auditor
}

func NewSettingHandler(store SettingStore, cache Invalidator, auditor audit.Auditor) *SettingHandler {
	return &SettingHandler{store: store, cache: cache, audit: auditor}
}

type UpdateSettingRequest struct {
	Value *string `json:"setting_value" binding:"required"`
}

func (h *SettingHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *SettingHandler) Get(c *gin.Context) {
	s, err := h.store.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

// Update upserts one setting. Payroll keys are checked before they are
// stored so a bad value cannot silently fall back at computation time.
func (h *SettingHandler) Update(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		httperr.BadRequest(c, "invalid_key", "setting key is required")
		return
	}

	var req UpdateSettingRequest
	if !bindJSON(c, &req) {
		return
	}
	value := strings.TrimSpace(*req.Value)

	if _, skipped := (payroll.Policy{}).WithOverrides(map[string]string{key: value}); len(skipped) > 0 {
		httperr.BadRequest(c, "invalid_setting_value", key+" has an invalid value")
		return
	}

	ctx := c.Request.Context()
	if err := h.store.Set(ctx, key, value); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.cache.Invalidate(ctx)
	h.audit.Dispatch(middleware.Actor(c).Event(audit.SettingUpdated, "setting", 0, gin.H{"key": key, "value": value}))

	s, err := h.store.Get(ctx, key)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}
