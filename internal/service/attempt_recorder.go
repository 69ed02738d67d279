package service

import (
	"context"
	"fmt"
	"time"

	"lingua_edu_backend/internal/grading"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"

	"gorm.io/gorm"
)

// LessonTally 某课程在一次评分中的题目数与答对数
type LessonTally struct {
	LessonID uint
	Total    int
	Correct  int
}

// Outcome 一次评分对调用方可见的结果
type Outcome struct {
	ScorePct int `json:"score_pct"`
	XPDelta  int `json:"xp_delta"`
}

// AttemptRecorder 在同一事务中写入作答记录、经验值流水和课程进度
type AttemptRecorder struct {
	DB           *gorm.DB
	AttemptRepo  *repository.AttemptRepository
	ProgressRepo *repository.ProgressRepository
	XpRepo       *repository.XpEventRepository
	Now          func() time.Time
}

func NewAttemptRecorder(db *gorm.DB, attempts *repository.AttemptRepository, progress *repository.ProgressRepository, xp *repository.XpEventRepository) *AttemptRecorder {
	return &AttemptRecorder{
		DB:           db,
		AttemptRepo:  attempts,
		ProgressRepo: progress,
		XpRepo:       xp,
		Now:          time.Now,
	}
}

// RecordLesson 单课程测验：一条作答记录、可选的经验值流水、进度取最大值
func (r *AttemptRecorder) RecordLesson(ctx context.Context, userID uint, t LessonTally) (Outcome, error) {
	out := Outcome{
		ScorePct: grading.Percent(t.Correct, t.Total),
		XPDelta:  grading.XPDelta(t.Correct),
	}
	now := r.Now().UTC()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.AttemptRepo.WithTx(tx).Create(ctx, &model.QuizAttempt{
			UserID:         userID,
			LessonID:       t.LessonID,
			TotalQuestions: t.Total,
			CorrectAnswers: t.Correct,
			CreatedAt:      now,
		}); err != nil {
			return err
		}

		if out.XPDelta > 0 {
			if err := r.XpRepo.WithTx(tx).Create(ctx, &model.XpEvent{
				UserID:    userID,
				Amount:    out.XPDelta,
				Reason:    fmt.Sprintf("Lesson %d quiz", t.LessonID),
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		_, err := r.ProgressRepo.WithTx(tx).UpsertMax(ctx, userID, t.LessonID, out.ScorePct, now)
		return err
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// RecordBatch 随机测验：每个课程各一条作答记录并更新进度，整批一条经验值流水。
// total/correct 覆盖整批，包括无法定位课程的题目。
func (r *AttemptRecorder) RecordBatch(ctx context.Context, userID uint, tallies []LessonTally, total, correct int) (Outcome, error) {
	out := Outcome{
		ScorePct: grading.Percent(correct, total),
		XPDelta:  grading.XPDelta(correct),
	}
	now := r.Now().UTC()
	batchID := model.GenerateUUID()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempts := r.AttemptRepo.WithTx(tx)
		progress := r.ProgressRepo.WithTx(tx)

		for _, t := range tallies {
			if t.Total == 0 {
				continue
			}
			if err := attempts.Create(ctx, &model.QuizAttempt{
				UserID:         userID,
				LessonID:       t.LessonID,
				TotalQuestions: t.Total,
				CorrectAnswers: t.Correct,
				BatchID:        &batchID,
				CreatedAt:      now,
			}); err != nil {
				return err
			}
			if _, err := progress.UpsertMax(ctx, userID, t.LessonID, grading.Percent(t.Correct, t.Total), now); err != nil {
				return err
			}
		}

		if out.XPDelta > 0 {
			return r.XpRepo.WithTx(tx).Create(ctx, &model.XpEvent{
				UserID:    userID,
				Amount:    out.XPDelta,
				Reason:    "Random quiz",
				BatchID:   &batchID,
				CreatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}
