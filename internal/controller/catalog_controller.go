package controller

import (
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// ListCategories godoc
// @Summary 分类列表
// @Description 按标题排序
// @Tags 课程目录
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.CatalogService.ListCategories(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	util.Success(ctx, categories)
}

// GetCategory godoc
// @Summary 分类详情
// @Tags 课程目录
// @Produce  json
// @Security ApiKeyAuth
// @Param   slug path string true "分类标识"
// @Success 200 {object} util.Response{data=model.Category}
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/categories/{slug} [get]
func (c *CatalogController) GetCategory(ctx *gin.Context) {
	category, err := c.CatalogService.GetCategory(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// ListLessons godoc
// @Summary 分类下的课程
// @Description 不含课程内容
// @Tags 课程目录
// @Produce  json
// @Security ApiKeyAuth
// @Param   slug path string true "分类标识"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/categories/{slug}/lessons [get]
func (c *CatalogController) ListLessons(ctx *gin.Context) {
	lessons, err := c.CatalogService.ListLessons(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if lessons == nil {
		lessons = []model.Lesson{}
	}
	util.Success(ctx, lessons)
}

// GetLesson godoc
// @Summary 课程详情
// @Tags 课程目录
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "无效的课程ID"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/lessons/{id} [get]
func (c *CatalogController) GetLesson(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	lesson, err := c.CatalogService.GetLesson(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}
