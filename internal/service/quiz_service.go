package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/grading"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/logger"
	"lingua_edu_backend/pkg/monitoring"
	"lingua_edu_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestionResult struct {
	QuestionID int  `json:"question_id"`
	IsCorrect  bool `json:"is_correct"`
}

type LessonQuizResult struct {
	Outcome
	Results []QuestionResult `json:"results"`
}

type RandomAnswerResult struct {
	QID       int  `json:"qid"`
	IsCorrect bool `json:"is_correct"`
}

type RandomQuizResult struct {
	Outcome
	Results []RandomAnswerResult `json:"results"`
}

type RandomQuiz struct {
	Items []grading.PresentedItem `json:"items"`
}

type QuizService struct {
	LessonRepo *repository.LessonRepository
	Recorder   *AttemptRecorder
	Assembler  *grading.Assembler
	Cfg        config.QuizConfig
}

func NewQuizService(lessons *repository.LessonRepository, recorder *AttemptRecorder, assembler *grading.Assembler, cfg config.QuizConfig) *QuizService {
	return &QuizService{
		LessonRepo: lessons,
		Recorder:   recorder,
		Assembler:  assembler,
		Cfg:        cfg,
	}
}

// decodeAnswers answers 必须是 JSON 数组；缺省或 null 视为空数组
func decodeAnswers(raw json.RawMessage) ([]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []any{}, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: answers must be an array", util.ErrInvalidInput)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: answers must be an array", util.ErrInvalidInput)
	}
	return list, nil
}

func selection(entry map[string]any) grading.Submission {
	sel, _ := entry["selected"].(map[string]any)
	return grading.ParseSubmission(sel)
}

func lessonItems(lesson *model.Lesson) []grading.Item {
	items, err := grading.ParseContent(lesson.Content)
	if err != nil {
		logger.Log.Warn("Lesson content is not valid JSON",
			zap.Uint("lesson_id", lesson.ID),
			zap.Error(err))
		return nil
	}
	return items
}

func gradeItem(lessonID uint, itemIndex int, it grading.Item, sub grading.Submission) bool {
	if !it.Resolvable() {
		monitoring.UnresolvedItems.Inc()
		logger.Log.Warn("Quiz item answer key cannot be resolved",
			zap.Uint("lesson_id", lessonID),
			zap.Int("item_index", itemIndex),
			zap.String("source_type", it.SourceType))
	}
	ok := grading.Grade(it, sub)
	monitoring.ObserveAnswer(string(it.Kind), ok)
	return ok
}

// SubmitLessonQuiz 评分单课程测验，question_id 为题目在 quiz.items 中的序号（从 1 开始）
func (s *QuizService) SubmitLessonQuiz(ctx context.Context, userID, lessonID uint, answers json.RawMessage) (*LessonQuizResult, error) {
	ctx, span := tracing.Start(ctx, "quiz.submit_lesson")
	defer span.End()
	span.SetAttributes(attribute.Int64("lesson_id", int64(lessonID)))

	entries, err := decodeAnswers(answers)
	if err != nil {
		return nil, err
	}

	lesson, err := s.LessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	items := lessonItems(lesson)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: lesson has no quiz items", util.ErrInvalidInput)
	}

	byQuestion := make(map[int]grading.Submission, len(entries))
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		qid, ok := grading.AsInt(entry["question_id"])
		if !ok {
			continue
		}
		byQuestion[qid] = selection(entry)
	}

	result := &LessonQuizResult{Results: make([]QuestionResult, 0, len(items))}
	correct := 0
	for i, it := range items {
		idx := i + 1
		ok := gradeItem(lesson.ID, idx, it, byQuestion[idx])
		if ok {
			correct++
		}
		result.Results = append(result.Results, QuestionResult{QuestionID: idx, IsCorrect: ok})
	}

	out, err := s.Recorder.RecordLesson(ctx, userID, LessonTally{LessonID: lesson.ID, Total: len(items), Correct: correct})
	if err != nil {
		return nil, err
	}
	result.Outcome = out
	monitoring.QuizSubmissions.WithLabelValues("lesson").Inc()
	return result, nil
}

// GetRandomQuiz 从课程池中不放回抽题；池为空时返回空列表
func (s *QuizService) GetRandomQuiz(ctx context.Context, size int, categoryID *uint) (*RandomQuiz, error) {
	ctx, span := tracing.Start(ctx, "quiz.random")
	defer span.End()

	if size < 1 {
		return nil, fmt.Errorf("%w: size must be >= 1", util.ErrInvalidInput)
	}
	span.SetAttributes(attribute.Int("size", size))

	lessons, err := s.LessonRepo.Pool(ctx, categoryID, s.Cfg.PoolLessonLimit)
	if err != nil {
		return nil, err
	}

	sources := make([]grading.LessonItems, 0, len(lessons))
	for i := range lessons {
		sources = append(sources, grading.LessonItems{LessonID: lessons[i].ID, Items: lessonItems(&lessons[i])})
	}
	pool := grading.BuildPool(sources)
	return &RandomQuiz{Items: s.Assembler.BuildRandomQuiz(pool, size)}, nil
}

type randomEntry struct {
	qid       int
	lessonID  uint
	itemIndex int
	resolved  bool
	sub       grading.Submission
}

func parseRandomEntries(raw json.RawMessage) ([]randomEntry, error) {
	list, err := decodeAnswers(raw)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: answers[] required", util.ErrInvalidInput)
	}

	entries := make([]randomEntry, 0, len(list))
	for i, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: answers[%d] must be an object", util.ErrInvalidInput, i)
		}
		qid, ok := grading.AsInt(m["qid"])
		if !ok {
			return nil, fmt.Errorf("%w: answers[%d].qid must be an integer", util.ErrInvalidInput, i)
		}
		entry := randomEntry{qid: qid, sub: selection(m)}
		lid, okLesson := grading.AsInt(m["lesson_id"])
		idx, okIndex := grading.AsInt(m["item_index"])
		if okLesson && okIndex && lid > 0 {
			entry.lessonID = uint(lid)
			entry.itemIndex = idx
			entry.resolved = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SubmitRandomQuiz 按课程拆分记录，整批汇总得分；无法定位的 (lesson_id, item_index) 记为答错
func (s *QuizService) SubmitRandomQuiz(ctx context.Context, userID uint, answers json.RawMessage) (*RandomQuizResult, error) {
	ctx, span := tracing.Start(ctx, "quiz.submit_random")
	defer span.End()

	entries, err := parseRandomEntries(answers)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("answers", len(entries)))

	var ids []uint
	seen := map[uint]bool{}
	for _, e := range entries {
		if e.resolved && !seen[e.lessonID] {
			seen[e.lessonID] = true
			ids = append(ids, e.lessonID)
		}
	}
	lessons, err := s.LessonRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	itemsByLesson := make(map[uint][]grading.Item, len(lessons))
	for i := range lessons {
		itemsByLesson[lessons[i].ID] = lessonItems(&lessons[i])
	}

	result := &RandomQuizResult{Results: make([]RandomAnswerResult, 0, len(entries))}
	tallyIndex := map[uint]int{}
	var tallies []LessonTally
	correct := 0

	for _, e := range entries {
		ok := false
		items, found := itemsByLesson[e.lessonID]
		if e.resolved && found {
			if e.itemIndex >= 1 && e.itemIndex <= len(items) {
				ok = gradeItem(e.lessonID, e.itemIndex, items[e.itemIndex-1], e.sub)
			}
			i, exists := tallyIndex[e.lessonID]
			if !exists {
				i = len(tallies)
				tallyIndex[e.lessonID] = i
				tallies = append(tallies, LessonTally{LessonID: e.lessonID})
			}
			tallies[i].Total++
			if ok {
				tallies[i].Correct++
			}
		} else {
			logger.Log.Warn("Random quiz answer references unknown lesson item",
				zap.Int("qid", e.qid),
				zap.Uint("lesson_id", e.lessonID),
				zap.Int("item_index", e.itemIndex))
		}
		if ok {
			correct++
		}
		result.Results = append(result.Results, RandomAnswerResult{QID: e.qid, IsCorrect: ok})
	}

	out, err := s.Recorder.RecordBatch(ctx, userID, tallies, len(entries), correct)
	if err != nil {
		return nil, err
	}
	result.Outcome = out
	monitoring.QuizSubmissions.WithLabelValues("random").Inc()
	return result, nil
}
