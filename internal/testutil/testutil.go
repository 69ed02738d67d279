package testutil

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"lingua_edu_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB 每个测试一个独立的 sqlite 文件库，已完成迁移
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(model.Models()...); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql db: %v", err)
	}
	// sqlite 单写者，串行化连接避免 database is locked
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	u := &model.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    string(hash),
		DisplayName: username,
	}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, db *gorm.DB, slug string) *model.Category {
	tb.Helper()
	c := &model.Category{Slug: slug, Title: slug}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

// SeedLesson items 为 quiz.items 的原始内容
func SeedLesson(tb testing.TB, db *gorm.DB, categoryID uint, title string, items []map[string]any) *model.Lesson {
	tb.Helper()
	content, err := json.Marshal(map[string]any{
		"title": title,
		"quiz":  map[string]any{"items": items},
	})
	if err != nil {
		tb.Fatalf("marshal content: %v", err)
	}
	l := &model.Lesson{
		CategoryID: categoryID,
		Title:      title,
		Difficulty: "A1",
		Content:    datatypes.JSON(content),
	}
	if err := db.Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// Clock 可控时钟
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time {
	return c.T
}

func (c *Clock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
