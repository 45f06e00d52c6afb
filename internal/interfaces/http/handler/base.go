package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"model3d-ai-api/internal/domain/repository"
	"model3d-ai-api/internal/interfaces/http/dto"
	apperrors "model3d-ai-api/pkg/errors"
)

// sessionHeader 匿名会话使用的请求头
const sessionHeader = "X-Session-ID"

// currentUserID 获取已认证用户 ID，未认证返回空串
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// resolveSessionID 解析会话标识
// 已登录用户用 user_id，匿名用户沿用请求头中的会话 ID，都没有则新建
func resolveSessionID(c *gin.Context) string {
	if userID := currentUserID(c); userID != "" {
		return userID
	}
	if sessionID := c.GetHeader(sessionHeader); sessionID != "" {
		return sessionID
	}
	return uuid.New().String()
}

// respondError 按应用错误码返回响应，未知错误一律 500
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}
	dto.InternalError(c, "internal server error")
}

// toPageMeta 将仓储分页结果转换为响应元数据
func toPageMeta[T any](result *repository.PagedResult[T]) *dto.PageMeta {
	return &dto.PageMeta{
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      int(result.Total),
		TotalPages: result.TotalPages,
	}
}
