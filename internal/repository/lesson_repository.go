package repository

import (
	"context"
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) WithTx(tx *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: tx}
}

func (r *LessonRepository) FindByID(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).First(&lesson, id).Error
	return &lesson, err
}

// FindByIDs 批量读取课程，缺失的 ID 不会出现在结果中
func (r *LessonRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if len(ids) == 0 {
		return lessons, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Lesson{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListByCategory 列表不返回 content
func (r *LessonRepository) ListByCategory(ctx context.Context, categoryID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Omit("content").
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&lessons).Error
	return lessons, err
}

// Pool 随机测验的课程池，最新的课程优先；limit <= 0 表示不限制
func (r *LessonRepository) Pool(ctx context.Context, categoryID *uint, limit int) ([]model.Lesson, error) {
	var lessons []model.Lesson
	q := r.DB.WithContext(ctx).Select("id", "category_id", "content", "created_at").Order("created_at DESC, id DESC")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&lessons).Error
	return lessons, err
}

// Upsert 按 (category_id, title) 插入或更新课程内容
func (r *LessonRepository) Upsert(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_id"}, {Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{"difficulty", "word_count", "content", "updated_at"}),
	}).Create(lesson).Error
}
