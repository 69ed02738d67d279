package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/grading"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Summary 账户级学习统计
type Summary struct {
	Username         string `json:"username"`
	DisplayName      string `json:"display_name"`
	AvatarURL        string `json:"avatar_url"`
	XP               int    `json:"xp"`
	Level            int    `json:"level"`
	Streak           int    `json:"streak"`
	CompletedLessons int    `json:"completedLessons"`
	Accuracy         int    `json:"accuracy"`
}

type ProgressService struct {
	UserRepo      *repository.UserRepository
	LessonRepo    *repository.LessonRepository
	ProgressRepo  *repository.ProgressRepository
	AttemptRepo   *repository.AttemptRepository
	XpRepo        *repository.XpEventRepository
	Location      *time.Location
	MaxStreakDays int
	Now           func() time.Time
}

func NewProgressService(
	users *repository.UserRepository,
	lessons *repository.LessonRepository,
	progress *repository.ProgressRepository,
	attempts *repository.AttemptRepository,
	xp *repository.XpEventRepository,
	cfg config.ProgressConfig,
) (*ProgressService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &ProgressService{
		UserRepo:      users,
		LessonRepo:    lessons,
		ProgressRepo:  progress,
		AttemptRepo:   attempts,
		XpRepo:        xp,
		Location:      loc,
		MaxStreakDays: cfg.MaxStreakDays,
		Now:           time.Now,
	}, nil
}

// ParsePercent 接受整数或整数字符串，范围 [0,100]
func ParsePercent(v any) (int, error) {
	p, ok := grading.AsInt(v)
	if !ok || p < 0 || p > 100 {
		return 0, fmt.Errorf("%w: percent must be an integer between 0 and 100", util.ErrInvalidInput)
	}
	return p, nil
}

// UpsertProgress 返回写入后的进度，取历史最大值
func (s *ProgressService) UpsertProgress(ctx context.Context, userID, lessonID uint, percent int) (int, error) {
	if percent < 0 || percent > 100 {
		return 0, fmt.Errorf("%w: percent must be an integer between 0 and 100", util.ErrInvalidInput)
	}
	exists, err := s.LessonRepo.Exists(ctx, lessonID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, util.ErrLessonNotFound
	}
	return s.ProgressRepo.UpsertMax(ctx, userID, lessonID, percent, s.Now().UTC())
}

// Summarize 汇总 XP、等级、连续天数、完成课程数和正确率，各项读取并行执行
func (s *ProgressService) Summarize(ctx context.Context, userID uint) (*Summary, error) {
	ctx, span := tracing.Start(ctx, "progress.summary")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", int64(userID)))

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	now := s.Now()
	today := now.In(s.Location)
	maxDays := s.MaxStreakDays
	if maxDays <= 0 {
		maxDays = grading.DefaultMaxStreakDays
	}
	since := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.Location).AddDate(0, 0, -maxDays).UTC()

	var (
		completed     int64
		totals        repository.AttemptTotals
		xpSum         int64
		xpTracked     = s.XpRepo.Available(ctx)
		attemptTimes  []time.Time
		progressTimes []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		completed, err = s.ProgressRepo.CountCompleted(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.AttemptRepo.Totals(gctx, userID)
		return err
	})
	if xpTracked {
		g.Go(func() (err error) {
			xpSum, err = s.XpRepo.Sum(gctx, userID)
			return err
		})
	}
	g.Go(func() (err error) {
		attemptTimes, err = s.AttemptRepo.CreatedSince(gctx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		progressTimes, err = s.ProgressRepo.UpdatedSince(gctx, userID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	xp := int(xpSum)
	if !xpTracked {
		xp = int(totals.Correct) * grading.XPPerCorrect
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}

	return &Summary{
		Username:         user.Username,
		DisplayName:      displayName,
		XP:               xp,
		Level:            grading.Level(xp),
		Streak:           grading.Streak(append(attemptTimes, progressTimes...), now, s.Location, maxDays),
		CompletedLessons: int(completed),
		Accuracy:         grading.Percent(int(totals.Correct), int(totals.Total)),
	}, nil
}
