// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"model3d-ai-api/internal/domain/entity"
)

// TokenBalanceResponse 代币余额响应
type TokenBalanceResponse struct {
	Balance             int `json:"balance"`
	FreeGenerationsUsed int `json:"free_generations_used"`
	FreeGenerations     int `json:"free_generations"`
}

// TopUpRequest 充值请求
type TopUpRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// TopUpResponse 充值响应
type TopUpResponse struct {
	Balance int `json:"balance"`
}

// TokenTransactionDTO 代币流水
type TokenTransactionDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Feature   string `json:"feature,omitempty"`
	Amount    int    `json:"amount"`
	Balance   int    `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// ToTokenTransactionDTO 将流水实体转换为 DTO
func ToTokenTransactionDTO(tx *entity.TokenTransaction) *TokenTransactionDTO {
	if tx == nil {
		return nil
	}
	return &TokenTransactionDTO{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Feature:   tx.Feature,
		Amount:    tx.Amount,
		Balance:   tx.Balance,
		CreatedAt: tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// TokenTransactionListResponse 代币流水列表响应
type TokenTransactionListResponse struct {
	Transactions []*TokenTransactionDTO `json:"transactions"`
}

// ToTokenTransactionListResponse 将流水实体列表转换为 DTO
func ToTokenTransactionListResponse(items []*entity.TokenTransaction) *TokenTransactionListResponse {
	transactions := make([]*TokenTransactionDTO, 0, len(items))
	for _, item := range items {
		transactions = append(transactions, ToTokenTransactionDTO(item))
	}
	return &TokenTransactionListResponse{Transactions: transactions}
}
