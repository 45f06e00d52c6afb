// Package quota 提供代币配额与计费能力
package quota

import (
	"context"
)

// GenerationGate 把通用计费闸门绑定到模型生成功能项
type GenerationGate struct {
	gate *Gate
}

// NewGenerationGate 创建模型生成计费闸门
func NewGenerationGate(gate *Gate) *GenerationGate {
	return &GenerationGate{gate: gate}
}

// Authorize 判断用户能否负担一次模型生成
func (g *GenerationGate) Authorize(ctx context.Context, userID string) error {
	return g.gate.CanAfford(ctx, userID, FeatureGeneration)
}

// Charge 为一次已完成的模型生成扣费
func (g *GenerationGate) Charge(ctx context.Context, userID string) error {
	return g.gate.Charge(ctx, userID, FeatureGeneration)
}
