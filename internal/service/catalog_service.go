package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cachePrefix = "lingua:catalog:"

// CatalogService 分类与课程的只读查询，redis 可用时做读穿透缓存
type CatalogService struct {
	CategoryRepo *repository.CategoryRepository
	LessonRepo   *repository.LessonRepository
	Redis        *redis.Client
	TTL          time.Duration
}

func NewCatalogService(categories *repository.CategoryRepository, lessons *repository.LessonRepository, rdb *redis.Client, ttl time.Duration) *CatalogService {
	return &CatalogService{
		CategoryRepo: categories,
		LessonRepo:   lessons,
		Redis:        rdb,
		TTL:          ttl,
	}
}

// cached 缓存失败只记日志，不影响查询
func (s *CatalogService) cached(ctx context.Context, key string, dst interface{}, load func() (interface{}, error)) error {
	if s.Redis != nil {
		raw, err := s.Redis.Get(ctx, cachePrefix+key).Bytes()
		if err == nil {
			if err := json.Unmarshal(raw, dst); err == nil {
				return nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err := load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, cachePrefix+key, raw, s.TTL).Err(); err != nil {
			logger.Log.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return json.Unmarshal(raw, dst)
}

// Invalidate 课程导入后清空目录缓存
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.cached(ctx, "categories", &categories, func() (interface{}, error) {
		return s.CategoryRepo.List(ctx)
	})
	return categories, err
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := s.cached(ctx, "category:"+slug, &category, func() (interface{}, error) {
		c, err := s.CategoryRepo.FindBySlug(ctx, slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return c, err
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CatalogService) ListLessons(ctx context.Context, slug string) ([]model.Lesson, error) {
	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return nil, err
	}
	var lessons []model.Lesson
	err = s.cached(ctx, fmt.Sprintf("lessons:%d", category.ID), &lessons, func() (interface{}, error) {
		return s.LessonRepo.ListByCategory(ctx, category.ID)
	})
	return lessons, err
}

func (s *CatalogService) GetLesson(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := s.cached(ctx, fmt.Sprintf("lesson:%d", id), &lesson, func() (interface{}, error) {
		l, err := s.LessonRepo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return l, err
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
