// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"model3d-ai-api/internal/application/quota"
	"model3d-ai-api/internal/domain/repository"
	"model3d-ai-api/internal/interfaces/http/dto"
	"model3d-ai-api/pkg/logger"
)

// TokenHandler 代币账户处理器
type TokenHandler struct {
	users           repository.UserRepository
	ledger          repository.TokenTransactionRepository
	gate            *quota.Gate
	freeGenerations int
}

// NewTokenHandler 创建代币账户处理器
func NewTokenHandler(users repository.UserRepository, ledger repository.TokenTransactionRepository, gate *quota.Gate, freeGenerations int) *TokenHandler {
	return &TokenHandler{
		users:           users,
		ledger:          ledger,
		gate:            gate,
		freeGenerations: freeGenerations,
	}
}

// Balance 查询代币余额
// @Summary 查询当前用户的代币余额与免费额度
// @Tags Token
// @Produce json
// @Success 200 {object} dto.Response[dto.TokenBalanceResponse]
// @Router /v1/tokens/balance [get]
func (h *TokenHandler) Balance(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto.NotFound(c, "user not found")
			return
		}
		logger.Error(ctx, "failed to get user", err, "user_id", userID)
		dto.InternalError(c, "failed to get balance")
		return
	}

	dto.Success(c, &dto.TokenBalanceResponse{
		Balance:             user.TokenBalance,
		FreeGenerationsUsed: user.FreeGenerationsUsed,
		FreeGenerations:     h.freeGenerations,
	})
}

// TopUp 充值代币
// @Summary 为当前用户充值代币
// @Tags Token
// @Accept json
// @Produce json
// @Param body body dto.TopUpRequest true "充值金额"
// @Success 200 {object} dto.Response[dto.TopUpResponse]
// @Router /v1/tokens/topup [post]
func (h *TokenHandler) TopUp(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	balance, err := h.gate.TopUp(ctx, userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, &dto.TopUpResponse{Balance: balance})
}

// Transactions 代币流水
// @Summary 查询当前用户的代币流水
// @Tags Token
// @Produce json
// @Success 200 {object} dto.Response[dto.TokenTransactionListResponse]
// @Router /v1/tokens/transactions [get]
func (h *TokenHandler) Transactions(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	page := dto.BindPage(c)
	result, err := h.ledger.ListByUser(ctx, userID, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list token transactions", err, "user_id", userID)
		dto.InternalError(c, "failed to list transactions")
		return
	}

	dto.SuccessWithPage(c, dto.ToTokenTransactionListResponse(result.Items), toPageMeta(result))
}
