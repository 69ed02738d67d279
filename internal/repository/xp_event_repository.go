package repository

import (
	"context"
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type XpEventRepository struct {
	DB *gorm.DB
}

func NewXpEventRepository(db *gorm.DB) *XpEventRepository {
	return &XpEventRepository{DB: db}
}

func (r *XpEventRepository) WithTx(tx *gorm.DB) *XpEventRepository {
	return &XpEventRepository{DB: tx}
}

func (r *XpEventRepository) Create(ctx context.Context, event *model.XpEvent) error {
	return r.DB.WithContext(ctx).Create(event).Error
}

// Available 旧库可能没有 xp_events 表
func (r *XpEventRepository) Available(ctx context.Context) bool {
	return r.DB.WithContext(ctx).Migrator().HasTable(&model.XpEvent{})
}

func (r *XpEventRepository) Sum(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&model.XpEvent{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

