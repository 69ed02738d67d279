package controller

import (
	"lingua_edu_backend/internal/middleware"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// ProgressRequest 上报课程进度；percent 接受整数或整数字符串
// swagger:model ProgressRequest
type ProgressRequest struct {
	LessonID uint        `json:"lesson_id" binding:"required"`
	Percent  interface{} `json:"percent" swaggertype:"integer"`
}

// GetSummary godoc
// @Summary 学习概览
// @Description XP、等级、连续学习天数、完成课程数和正确率
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Summary}
// @Failure 401 {object} util.Response "未授权"
// @Router /api/me/summary [get]
func (c *ProgressController) GetSummary(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	summary, err := c.ProgressService.Summarize(ctx.Request.Context(), userID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// UpsertProgress godoc
// @Summary 上报课程进度
// @Description 只保留历史最高值，返回写入后的进度
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ProgressRequest true "进度"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/progress [post]
func (c *ProgressController) UpsertProgress(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	percent, err := service.ParsePercent(req.Percent)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	stored, err := c.ProgressService.UpsertProgress(ctx.Request.Context(), userID, req.LessonID, percent)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ok": true, "percent": stored})
}
