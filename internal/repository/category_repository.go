package repository

import (
	"context"
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: tx}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.WithContext(ctx).Order("title ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	return &category, err
}

// EnsureBySlug 按 slug 查找分类，不存在时用 defaults 创建；已存在时只补写 defaults 中的非空字段
func (r *CategoryRepository) EnsureBySlug(ctx context.Context, slug string, defaults model.Category) (*model.Category, error) {
	updates := map[string]interface{}{}
	if defaults.Title != "" {
		updates["title"] = defaults.Title
	}
	if defaults.Description != "" {
		updates["description"] = defaults.Description
	}
	if defaults.Emoji != "" {
		updates["emoji"] = defaults.Emoji
	}
	if defaults.Title == "" {
		defaults.Title = slug
	}

	db := r.DB.WithContext(ctx)
	category := model.Category{Slug: slug}
	result := db.
		Where(model.Category{Slug: slug}).
		Attrs(model.Category{Title: defaults.Title, Description: defaults.Description, Emoji: defaults.Emoji}).
		FirstOrCreate(&category)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(updates) == 0 {
		return &category, nil
	}
	if err := db.Model(&model.Category{}).Where("id = ?", category.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindBySlug(ctx, slug)
}
