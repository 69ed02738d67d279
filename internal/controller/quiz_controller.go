package controller

import (
	"encoding/json"
	"strconv"

	"lingua_edu_backend/internal/middleware"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// LessonAttemptRequest 单课程测验提交
// swagger:model LessonAttemptRequest
type LessonAttemptRequest struct {
	LessonID uint            `json:"lesson_id" binding:"required"`
	Answers  json.RawMessage `json:"answers" swaggertype:"array,object"`
}

// RandomAttemptRequest 随机测验提交
// swagger:model RandomAttemptRequest
type RandomAttemptRequest struct {
	Answers json.RawMessage `json:"answers" swaggertype:"array,object"`
}

// SubmitLessonQuiz godoc
// @Summary 提交单课程测验
// @Description answers 为 [{question_id, selected}]，question_id 为题目序号（从 1 开始）
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body LessonAttemptRequest true "作答"
// @Success 200 {object} util.Response{data=service.LessonQuizResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/quiz/attempt [post]
func (c *QuizController) SubmitLessonQuiz(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	var req LessonAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitLessonQuiz(ctx.Request.Context(), userID, req.LessonID, req.Answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetRandomQuiz godoc
// @Summary 随机测验
// @Description 从最近的课程中不放回抽题，可按分类过滤
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   size query int false "题目数量"
// @Param   category_id query int false "分类ID"
// @Success 200 {object} util.Response{data=service.RandomQuiz}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/quiz/random [get]
func (c *QuizController) GetRandomQuiz(ctx *gin.Context) {
	size := c.QuizService.Cfg.DefaultRandomSize
	if raw := ctx.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "size 必须是整数")
			return
		}
		size = n
	}
	categoryID, err := util.ParseOptionalUint(ctx.Query("category_id"))
	if err != nil {
		util.BadRequest(ctx, "无效的分类ID")
		return
	}

	quiz, err := c.QuizService.GetRandomQuiz(ctx.Request.Context(), size, categoryID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// SubmitRandomQuiz godoc
// @Summary 提交随机测验
// @Description answers 为 [{qid, lesson_id, item_index, selected}]，item_index 从 1 开始
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body RandomAttemptRequest true "作答"
// @Success 200 {object} util.Response{data=service.RandomQuizResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/quiz/random/attempt [post]
func (c *QuizController) SubmitRandomQuiz(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	var req RandomAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitRandomQuiz(ctx.Request.Context(), userID, req.Answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
