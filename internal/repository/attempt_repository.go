package repository

import (
	"context"
	"lingua_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

// AttemptTotals 用户全部作答记录的汇总
type AttemptTotals struct {
	Correct int64
	Total   int64
}

func (r *AttemptRepository) Totals(ctx context.Context, userID uint) (AttemptTotals, error) {
	var t AttemptTotals
	err := r.DB.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Select("COALESCE(SUM(correct_answers), 0) AS correct, COALESCE(SUM(total_questions), 0) AS total").
		Where("user_id = ?", userID).
		Scan(&t).Error
	return t, err
}

// CreatedSince 用于计算连续学习天数
func (r *AttemptRepository) CreatedSince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Pluck("created_at", &times).Error
	return times, err
}
