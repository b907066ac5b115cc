package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

var errSettingNotFound = httperr.NotFound("setting_not_found", "setting not found")

type SettingGormRepository struct {
	db *gorm.DB
}

func NewSettingGormRepository(db *gorm.DB) *SettingGormRepository {
	return &SettingGormRepository{db: db}
}

func (r *SettingGormRepository) List(ctx context.Context) ([]models.Setting, error) {
	var list []models.Setting
	if err := r.db.WithContext(ctx).Order("setting_key ASC").Find(&list).Error; err != nil {
		return nil, translate(err, nil)
	}
	return list, nil
}

func (r *SettingGormRepository) Values(ctx context.Context) (map[string]string, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, s := range list {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (r *SettingGormRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	if err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&s).Error; err != nil {
		return nil, translate(err, errSettingNotFound)
	}
	return &s, nil
}

func (r *SettingGormRepository) Set(ctx context.Context, key, value string) error {
	s := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
		}).
		Create(&s).Error
	return translate(err, nil)
}
