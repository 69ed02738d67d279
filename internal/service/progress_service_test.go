package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/testutil"
	"lingua_edu_backend/internal/util"
)

func TestParsePercent(t *testing.T) {
	valid := map[any]int{float64(0): 0, float64(100): 100, "55": 55, 42: 42}
	for in, want := range valid {
		got, err := ParsePercent(in)
		if err != nil || got != want {
			t.Fatalf("ParsePercent(%v) = %d, %v", in, got, err)
		}
	}
	for _, in := range []any{float64(-1), float64(101), "abc", nil, 12.5, true} {
		if _, err := ParsePercent(in); !errors.Is(err, util.ErrInvalidInput) {
			t.Fatalf("ParsePercent(%v) should fail, got %v", in, err)
		}
	}
}

func TestUpsertProgressKeepsMaximum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, f.db, "ana")
	cat := testutil.SeedCategory(t, f.db, "basics")
	lesson := testutil.SeedLesson(t, f.db, cat.ID, "Lesson 1", twoItemLesson())

	var got int
	var err error
	for _, p := range []int{40, 70, 55} {
		got, err = f.progress.UpsertProgress(ctx, user.ID, lesson.ID, p)
		if err != nil {
			t.Fatalf("upsert %d: %v", p, err)
		}
		f.clock.Advance(time.Minute)
	}
	if got != 70 {
		t.Fatalf("expected stored 70, got %d", got)
	}
	if n := count(t, f.db, "lesson_progress"); n != 1 {
		t.Fatalf("expected a single progress row, got %d", n)
	}

	if _, err := f.progress.UpsertProgress(ctx, user.ID, 9999, 10); !errors.Is(err, util.ErrLessonNotFound) {
		t.Fatalf("expected lesson not found, got %v", err)
	}
	if _, err := f.progress.UpsertProgress(ctx, user.ID, lesson.ID, 101); !errors.Is(err, util.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSummarizeStreakAcrossDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, f.db, "ion")
	cat := testutil.SeedCategory(t, f.db, "basics")
	lesson := testutil.SeedLesson(t, f.db, cat.ID, "Lesson 1", twoItemLesson())
	answers := json.RawMessage(`[{"question_id": 1, "selected": {"index": 0}}]`)

	for day := 0; day < 3; day++ {
		if _, err := f.quiz.SubmitLessonQuiz(ctx, user.ID, lesson.ID, answers); err != nil {
			t.Fatalf("submit day %d: %v", day, err)
		}
		s, err := f.progress.Summarize(ctx, user.ID)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if s.Streak != day+1 {
			t.Fatalf("day %d: expected streak %d, got %d", day, day+1, s.Streak)
		}
		f.clock.Advance(24 * time.Hour)
	}

	// 今天没有活动，连续天数归零
	s, err := f.progress.Summarize(ctx, user.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Streak != 0 {
		t.Fatalf("expected streak 0 without activity today, got %d", s.Streak)
	}
	if s.XP != 30 || s.Accuracy != 50 || s.CompletedLessons != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSummarizeXpFallbackWithoutEventTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, f.db, "eva")
	cat := testutil.SeedCategory(t, f.db, "basics")
	lesson := testutil.SeedLesson(t, f.db, cat.ID, "Lesson 1", twoItemLesson())

	if _, err := f.quiz.SubmitLessonQuiz(ctx, user.ID, lesson.ID, json.RawMessage(`[
		{"question_id": 1, "selected": {"index": 0}},
		{"question_id": 2, "selected": {"text": "ok"}}
	]`)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// 手工多记一条流水，确认有表时以流水为准
	f.db.Create(&model.XpEvent{UserID: user.ID, Amount: 5, Reason: "bonus", CreatedAt: f.clock.Now()})

	s, err := f.progress.Summarize(ctx, user.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.XP != 25 {
		t.Fatalf("expected xp from events 25, got %d", s.XP)
	}

	if err := f.db.Migrator().DropTable(&model.XpEvent{}); err != nil {
		t.Fatalf("drop xp table: %v", err)
	}
	s, err = f.progress.Summarize(ctx, user.ID)
	if err != nil {
		t.Fatalf("summary without xp table: %v", err)
	}
	if s.XP != 20 || s.Level != 1 {
		t.Fatalf("expected derived xp 20, got %+v", s)
	}
}

func TestSummarizeDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, f.db, "dan")
	f.db.Model(user).Update("display_name", "")

	s, err := f.progress.Summarize(ctx, user.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.DisplayName != "dan" || s.XP != 0 || s.Level != 1 || s.Accuracy != 0 || s.Streak != 0 {
		t.Fatalf("unexpected empty summary %+v", s)
	}

	if _, err := f.progress.Summarize(ctx, 9999); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}
