// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"model3d-ai-api/internal/application/dialog"
	"model3d-ai-api/internal/interfaces/http/dto"
	"model3d-ai-api/pkg/logger"
)

// ChatHandler 对话处理器
type ChatHandler struct {
	engine *dialog.Engine
}

// NewChatHandler 创建对话处理器
func NewChatHandler(engine *dialog.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// SendMessage 发送对话消息
// @Summary 发送对话消息
// @Description 驱动一轮对话，建模请求经参数收集后返回 OpenSCAD 代码
// @Tags Chat
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "匿名会话 ID，未登录时沿用"
// @Param body body dto.ChatMessageRequest true "用户消息"
// @Success 200 {object} dto.Response[dto.ChatMessageResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sessionID := resolveSessionID(c)
	ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, sessionID)

	reply := h.engine.HandleMessage(ctx, sessionID, req.Message)

	c.Header(sessionHeader, sessionID)
	dto.Success(c, dto.ToChatMessageResponse(sessionID, reply))
}
