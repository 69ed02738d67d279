package repository

import (
	"context"
	"lingua_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// UpsertMax 不存在则创建；存在则 percent = max(percent, 新值)，updated_at 每次都刷新。
// 并发提交依赖唯一索引 idx_user_lesson，两步都是单条原子语句，先后顺序不影响结果。
func (r *ProgressRepository) UpsertMax(ctx context.Context, userID, lessonID uint, percent int, now time.Time) (int, error) {
	db := r.DB.WithContext(ctx)

	row := model.LessonProgress{
		UserID:    userID,
		LessonID:  lessonID,
		Percent:   percent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return 0, err
	}

	err := db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Updates(map[string]interface{}{
			"percent":    gorm.Expr("CASE WHEN percent < ? THEN ? ELSE percent END", percent, percent),
			"updated_at": now,
		}).Error
	if err != nil {
		return 0, err
	}

	var stored model.LessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&stored).Error; err != nil {
		return 0, err
	}
	return stored.Percent, nil
}

func (r *ProgressRepository) Find(ctx context.Context, userID, lessonID uint) (*model.LessonProgress, error) {
	var p model.LessonProgress
	err := r.DB.WithContext(ctx).Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&p).Error
	return &p, err
}

func (r *ProgressRepository) CountCompleted(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.LessonProgress{}).
		Where("user_id = ? AND percent >= ?", userID, 100).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) UpdatedSince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.WithContext(ctx).
		Model(&model.LessonProgress{}).
		Where("user_id = ? AND updated_at >= ?", userID, since).
		Pluck("updated_at", &times).Error
	return times, err
}
