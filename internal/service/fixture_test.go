package service

import (
	"math/rand"
	"testing"
	"time"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/grading"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/testutil"

	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	clock    *testutil.Clock
	quiz     *QuizService
	progress *ProgressService
	recorder *AttemptRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	clock := &testutil.Clock{T: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)}

	users := repository.NewUserRepository(db)
	lessons := repository.NewLessonRepository(db)
	attempts := repository.NewAttemptRepository(db)
	progress := repository.NewProgressRepository(db)
	xp := repository.NewXpEventRepository(db)

	recorder := NewAttemptRecorder(db, attempts, progress, xp)
	recorder.Now = clock.Now

	assembler := grading.NewAssembler(rand.New(rand.NewSource(42)))
	quiz := NewQuizService(lessons, recorder, assembler, config.QuizConfig{DefaultRandomSize: 10, PoolLessonLimit: 100})

	ps, err := NewProgressService(users, lessons, progress, attempts, xp, config.ProgressConfig{Timezone: "UTC", MaxStreakDays: 365})
	if err != nil {
		t.Fatalf("progress service: %v", err)
	}
	ps.Now = clock.Now

	return &fixture{db: db, clock: clock, quiz: quiz, progress: ps, recorder: recorder}
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
