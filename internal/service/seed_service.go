package service

import (
	"context"
	"encoding/json"
	"fmt"

	"lingua_edu_backend/internal/grading"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// lessonHeader 课程文档中导入时使用的字段，其余内容原样保存
type lessonHeader struct {
	CategorySlug        string            `json:"category_slug"`
	CategoryTitle       string            `json:"category_title"`
	CategoryDescription string            `json:"category_description"`
	CategoryEmoji       string            `json:"category_emoji"`
	Title               string            `json:"title"`
	Level               string            `json:"level"`
	WordCount           *int              `json:"word_count"`
	Targets             []json.RawMessage `json:"targets"`
}

type SeededLesson struct {
	Source     string `json:"source"`
	LessonID   uint   `json:"lesson_id"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	Items      int    `json:"items"`
	Unresolved []int  `json:"unresolved,omitempty"`
}

type SeedReport struct {
	Lessons []SeededLesson    `json:"lessons"`
	Failed  map[string]string `json:"failed,omitempty"`
}

type SeedService struct {
	DB           *gorm.DB
	CategoryRepo *repository.CategoryRepository
	LessonRepo   *repository.LessonRepository
	Catalog      *CatalogService
}

func NewSeedService(db *gorm.DB, categories *repository.CategoryRepository, lessons *repository.LessonRepository, catalog *CatalogService) *SeedService {
	return &SeedService{DB: db, CategoryRepo: categories, LessonRepo: lessons, Catalog: catalog}
}

// DecodeDocument 把 JSON 或 YAML 文档统一转换为 JSON 对象
func DecodeDocument(name string, data []byte) ([]byte, error) {
	format, ok := util.DocumentFormat(name)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported document %s", util.ErrInvalidInput, name)
	}
	var doc map[string]any
	switch format {
	case util.FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", util.ErrInvalidInput, name, err)
		}
		doc, _ = jsonCompatible(raw).(map[string]any)
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", util.ErrInvalidInput, name, err)
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s: document must be an object", util.ErrInvalidInput, name)
	}
	return json.Marshal(doc)
}

// jsonCompatible yaml 中的非字符串键转换为字符串
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = jsonCompatible(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = jsonCompatible(val)
		}
		return t
	}
	return v
}

// ImportDocument 按 (分类, 标题) 插入或更新一节课
func (s *SeedService) ImportDocument(ctx context.Context, name string, data []byte) (*SeededLesson, error) {
	content, err := DecodeDocument(name, data)
	if err != nil {
		return nil, err
	}
	var h lessonHeader
	if err := json.Unmarshal(content, &h); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrInvalidInput, name, err)
	}
	if h.CategorySlug == "" || h.Title == "" {
		return nil, fmt.Errorf("%w: %s: category_slug and title are required", util.ErrInvalidInput, name)
	}
	if h.Level == "" {
		h.Level = "A1"
	}
	wordCount := len(h.Targets)
	if h.WordCount != nil {
		wordCount = *h.WordCount
	}

	items, err := grading.ParseContent(content)
	if err != nil {
		return nil, err
	}
	report := &SeededLesson{Source: name, Category: h.CategorySlug, Title: h.Title, Items: len(items)}
	for i, it := range items {
		if !it.Resolvable() {
			report.Unresolved = append(report.Unresolved, i+1)
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := s.CategoryRepo.WithTx(tx).EnsureBySlug(ctx, h.CategorySlug, model.Category{
			Title:       h.CategoryTitle,
			Description: h.CategoryDescription,
			Emoji:       h.CategoryEmoji,
		})
		if err != nil {
			return err
		}
		lesson := &model.Lesson{
			CategoryID: category.ID,
			Title:      h.Title,
			Difficulty: h.Level,
			WordCount:  wordCount,
			Content:    datatypes.JSON(content),
		}
		if err := s.LessonRepo.WithTx(tx).Upsert(ctx, lesson); err != nil {
			return err
		}
		// 冲突更新时 ID 不一定回填
		var stored model.Lesson
		if err := tx.Select("id").Where("category_id = ? AND title = ?", category.ID, h.Title).First(&stored).Error; err != nil {
			return err
		}
		report.LessonID = stored.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Import 导入来源中的全部文档，单个文档失败不影响其他文档
func (s *SeedService) Import(ctx context.Context, src LessonSource) (*SeedReport, error) {
	names, err := src.List(ctx)
	if err != nil {
		return nil, err
	}
	report := &SeedReport{Lessons: []SeededLesson{}}
	for _, name := range names {
		data, err := src.Read(ctx, name)
		if err == nil {
			var lesson *SeededLesson
			lesson, err = s.ImportDocument(ctx, name, data)
			if err == nil {
				report.Lessons = append(report.Lessons, *lesson)
				if len(lesson.Unresolved) > 0 {
					logger.Log.Warn("Lesson has quiz items with unresolved answer keys",
						zap.String("source", name),
						zap.Ints("items", lesson.Unresolved))
				}
				continue
			}
		}
		if report.Failed == nil {
			report.Failed = map[string]string{}
		}
		report.Failed[name] = err.Error()
		logger.Log.Error("Lesson import failed", zap.String("source", name), zap.Error(err))
	}
	if s.Catalog != nil && len(report.Lessons) > 0 {
		s.Catalog.Invalidate(ctx)
	}
	return report, nil
}
