package repository

import (
	"context"
	"testing"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/testutil"

	"gorm.io/datatypes"
)

func TestLessonPoolAndListing(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	rooms := testutil.SeedCategory(t, db, "rooms")
	food := testutil.SeedCategory(t, db, "food")
	testutil.SeedLesson(t, db, rooms.ID, "Kitchen", []map[string]any{{"type": "fill", "answer": "ok"}})
	testutil.SeedLesson(t, db, rooms.ID, "Bedroom", nil)
	testutil.SeedLesson(t, db, food.ID, "Bread", nil)
	repo := NewLessonRepository(db)

	all, err := repo.Pool(ctx, nil, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 lessons, got %d err=%v", len(all), err)
	}
	filtered, err := repo.Pool(ctx, &rooms.ID, 0)
	if err != nil || len(filtered) != 2 {
		t.Fatalf("expected 2 lessons, got %d err=%v", len(filtered), err)
	}
	limited, err := repo.Pool(ctx, nil, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected 1 lesson, got %d err=%v", len(limited), err)
	}
	if len(all[0].Content) == 0 {
		t.Fatalf("pool must load content")
	}

	listed, err := repo.ListByCategory(ctx, rooms.ID)
	if err != nil || len(listed) != 2 {
		t.Fatalf("expected 2 listed lessons, got %d err=%v", len(listed), err)
	}
	if len(listed[0].Content) != 0 {
		t.Fatalf("listing must not load content")
	}

	found, err := repo.FindByIDs(ctx, []uint{all[0].ID, 9999})
	if err != nil || len(found) != 1 {
		t.Fatalf("expected 1 found lesson, got %d err=%v", len(found), err)
	}
	ok, err := repo.Exists(ctx, 9999)
	if err != nil || ok {
		t.Fatalf("lesson 9999 must not exist")
	}
}

func TestLessonUpsertByCategoryAndTitle(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	cats := NewCategoryRepository(db)
	repo := NewLessonRepository(db)

	cat, err := cats.EnsureBySlug(ctx, "home", model.Category{})
	if err != nil {
		t.Fatalf("ensure category: %v", err)
	}
	if cat.Title != "home" {
		t.Fatalf("expected slug as fallback title, got %q", cat.Title)
	}
	again, err := cats.EnsureBySlug(ctx, "home", model.Category{Title: "Home", Emoji: "🏠"})
	if err != nil || again.ID != cat.ID || again.Title != "Home" || again.Emoji != "🏠" {
		t.Fatalf("expected existing category with new metadata, got %+v err=%v", again, err)
	}
	// 空字段不覆盖已有值
	kept, err := cats.EnsureBySlug(ctx, "home", model.Category{Description: "Rooms and furniture"})
	if err != nil || kept.ID != cat.ID || kept.Title != "Home" || kept.Emoji != "🏠" || kept.Description != "Rooms and furniture" {
		t.Fatalf("empty metadata must not overwrite stored values, got %+v err=%v", kept, err)
	}

	first := &model.Lesson{CategoryID: cat.ID, Title: "Lamp", Difficulty: "A1", Content: datatypes.JSON(`{"v":1}`)}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &model.Lesson{CategoryID: cat.ID, Title: "Lamp", Difficulty: "A2", Content: datatypes.JSON(`{"v":2}`)}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var lessons []model.Lesson
	db.Where("category_id = ?", cat.ID).Find(&lessons)
	if len(lessons) != 1 {
		t.Fatalf("expected one lesson, got %d", len(lessons))
	}
	if lessons[0].Difficulty != "A2" || string(lessons[0].Content) != `{"v":2}` {
		t.Fatalf("lesson not updated: %+v", lessons[0])
	}
}
