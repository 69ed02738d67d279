package repository

import (
	"context"
	"testing"
	"time"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/testutil"
)

func TestAttemptTotalsAndXpSum(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "maria")
	attempts := NewAttemptRepository(db)
	xp := NewXpEventRepository(db)

	empty, err := attempts.Totals(ctx, user.ID)
	if err != nil || empty.Total != 0 || empty.Correct != 0 {
		t.Fatalf("expected zero totals, got %+v err=%v", empty, err)
	}

	now := time.Date(2025, 5, 2, 12, 0, 0, 0, time.UTC)
	for _, a := range []model.QuizAttempt{
		{UserID: user.ID, LessonID: 1, TotalQuestions: 4, CorrectAnswers: 3, CreatedAt: now},
		{UserID: user.ID, LessonID: 2, TotalQuestions: 2, CorrectAnswers: 0, CreatedAt: now.AddDate(0, 0, -3)},
		{UserID: user.ID + 1, LessonID: 2, TotalQuestions: 9, CorrectAnswers: 9, CreatedAt: now},
	} {
		a := a
		if err := attempts.Create(ctx, &a); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}

	totals, err := attempts.Totals(ctx, user.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Correct != 3 || totals.Total != 6 {
		t.Fatalf("unexpected totals %+v", totals)
	}

	since, err := attempts.CreatedSince(ctx, user.ID, now.AddDate(0, 0, -1))
	if err != nil || len(since) != 1 {
		t.Fatalf("expected 1 recent attempt, got %d err=%v", len(since), err)
	}

	if !xp.Available(ctx) {
		t.Fatalf("xp_events table should exist after migration")
	}
	for _, amount := range []int{30, 20} {
		if err := xp.Create(ctx, &model.XpEvent{UserID: user.ID, Amount: amount, Reason: "Random quiz"}); err != nil {
			t.Fatalf("create xp: %v", err)
		}
	}
	sum, err := xp.Sum(ctx, user.ID)
	if err != nil || sum != 50 {
		t.Fatalf("expected 50 xp, got %d err=%v", sum, err)
	}

	if err := db.Migrator().DropTable(&model.XpEvent{}); err != nil {
		t.Fatalf("drop xp table: %v", err)
	}
	if xp.Available(ctx) {
		t.Fatalf("expected xp table to be unavailable after drop")
	}
}
