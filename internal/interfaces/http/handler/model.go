// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"model3d-ai-api/internal/application/quota"
	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/internal/domain/repository"
	"model3d-ai-api/internal/infrastructure/storage"
	"model3d-ai-api/internal/interfaces/http/dto"
	"model3d-ai-api/pkg/logger"
)

// ModelHandler 模型文件处理器
type ModelHandler struct {
	artifacts repository.ModelArtifactRepository
	store     *storage.MediaStore
	gate      *quota.Gate
}

// NewModelHandler 创建模型文件处理器
func NewModelHandler(artifacts repository.ModelArtifactRepository, store *storage.MediaStore, gate *quota.Gate) *ModelHandler {
	return &ModelHandler{
		artifacts: artifacts,
		store:     store,
		gate:      gate,
	}
}

// List 模型列表
// @Summary 获取当前用户的模型列表
// @Tags Model
// @Produce json
// @Success 200 {object} dto.Response[dto.ModelListResponse]
// @Router /v1/models [get]
func (h *ModelHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	page := dto.BindPage(c)
	result, err := h.artifacts.ListByUser(ctx, userID, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list models", err, "user_id", userID)
		dto.InternalError(c, "failed to list models")
		return
	}

	dto.SuccessWithPage(c, dto.ToModelListResponse(result.Items), toPageMeta(result))
}

// Get 模型详情
// @Summary 获取模型详情
// @Tags Model
// @Produce json
// @Param mid path string true "模型 ID"
// @Success 200 {object} dto.Response[dto.ModelArtifactDTO]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/models/{mid} [get]
func (h *ModelHandler) Get(c *gin.Context) {
	artifact, ok := h.loadOwned(c)
	if !ok {
		return
	}
	dto.Success(c, dto.ToModelArtifactDTO(artifact))
}

// DownloadScad 下载 OpenSCAD 源文件
// @Summary 下载模型的 .scad 源文件
// @Tags Model
// @Produce plain
// @Param mid path string true "模型 ID"
// @Router /v1/models/{mid}/scad [get]
func (h *ModelHandler) DownloadScad(c *gin.Context) {
	ctx := c.Request.Context()
	artifact, ok := h.loadOwned(c)
	if !ok {
		return
	}

	code, err := h.store.ReadScad(ctx, artifact)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Name+`.scad"`)
	c.Data(200, "text/plain; charset=utf-8", code)
}

// Preview 获取模型预览图
// @Summary 获取模型的 PNG 预览图
// @Tags Model
// @Produce png
// @Param mid path string true "模型 ID"
// @Router /v1/models/{mid}/preview [get]
func (h *ModelHandler) Preview(c *gin.Context) {
	artifact, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if artifact.PreviewPath == "" {
		dto.NotFound(c, "preview not available")
		return
	}
	c.File(artifact.PreviewPath)
}

// ExportSTL 导出 STL
// STL 导出是计费功能，导出成功后扣费
// @Summary 导出模型为 STL 文件
// @Tags Model
// @Produce octet-stream
// @Param mid path string true "模型 ID"
// @Failure 402 {object} dto.ErrorResponse
// @Router /v1/models/{mid}/stl [get]
func (h *ModelHandler) ExportSTL(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	artifact, ok := h.loadOwned(c)
	if !ok {
		return
	}

	if h.gate != nil {
		if err := h.gate.CanAfford(ctx, userID, quota.FeatureExportSTL); err != nil {
			respondError(c, err)
			return
		}
	}

	artifact, err := h.store.ExportSTL(ctx, artifact)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.gate != nil {
		if err := h.gate.Charge(ctx, userID, quota.FeatureExportSTL); err != nil {
			logger.Warn(ctx, "stl export charge failed", "user_id", userID, "error", err.Error())
		}
	}

	c.FileAttachment(artifact.StlPath, artifact.Name+".stl")
}

// Delete 删除模型
// @Summary 删除模型记录
// @Tags Model
// @Param mid path string true "模型 ID"
// @Success 204
// @Router /v1/models/{mid} [delete]
func (h *ModelHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	artifact, ok := h.loadOwned(c)
	if !ok {
		return
	}

	if err := h.artifacts.Delete(ctx, artifact.ID); err != nil {
		logger.Error(ctx, "failed to delete model", err, "model_id", artifact.ID)
		dto.InternalError(c, "failed to delete model")
		return
	}
	dto.NoContent(c)
}

// loadOwned 加载模型并校验归属，未通过时已写入响应
func (h *ModelHandler) loadOwned(c *gin.Context) (*entity.ModelArtifact, bool) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return nil, false
	}

	artifact, err := h.artifacts.GetByID(ctx, dto.BindModelID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto.NotFound(c, "model not found")
			return nil, false
		}
		logger.Error(ctx, "failed to get model", err)
		dto.InternalError(c, "failed to get model")
		return nil, false
	}
	if artifact.UserID != userID {
		dto.NotFound(c, "model not found")
		return nil, false
	}
	return artifact, true
}
