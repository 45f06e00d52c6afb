package llm

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"

	"model3d-ai-api/internal/domain/entity"
	einoobs "model3d-ai-api/internal/observability/eino"
	"model3d-ai-api/internal/workflow/chain"
	wfmodel "model3d-ai-api/internal/workflow/model"
	apperrors "model3d-ai-api/pkg/errors"
)

var tracer = otel.Tracer("infrastructure/llm")

// Completer 文本补全适配器，把工作流链包装成应用层需要的窄接口
// 未配置任何提供商时所有调用返回 ErrCompletionUnavailable
type Completer struct {
	factory *EinoFactory
	code    *chain.ScadCodeChain
	support *chain.SupportChatChain
}

// NewCompleter 创建文本补全适配器
func NewCompleter(factory *EinoFactory) *Completer {
	return &Completer{
		factory: factory,
		code:    chain.NewScadCodeChain(factory),
		support: chain.NewSupportChatChain(factory),
	}
}

// CompleteCode 按提示词生成 OpenSCAD 代码
func (c *Completer) CompleteCode(ctx context.Context, prompt string) (string, error) {
	if !c.factory.Available() {
		return "", apperrors.ErrCompletionUnavailable
	}

	ctx, span := tracer.Start(ctx, "llm.complete_code")
	defer span.End()

	ctx = einoobs.WithWorkflowProvider(ctx, "scad_code", c.factory.DefaultProvider())
	msg, err := c.code.Invoke(ctx, &wfmodel.ScadCodeInput{Prompt: prompt})
	if err != nil {
		span.RecordError(err)
		return "", apperrors.Wrap(err, apperrors.CodeCompletionFailed, "code completion failed")
	}
	return strings.TrimSpace(msg.Content), nil
}

// RespondSupport 按客服人设回答，history 已包含当前用户消息
func (c *Completer) RespondSupport(ctx context.Context, history []entity.Message) (string, error) {
	if !c.factory.Available() {
		return "", apperrors.ErrCompletionUnavailable
	}

	ctx, span := tracer.Start(ctx, "llm.respond_support")
	defer span.End()

	ctx = einoobs.WithWorkflowProvider(ctx, "support_chat", c.factory.DefaultProvider())
	msg, err := c.support.Invoke(ctx, &wfmodel.SupportChatInput{
		HistoryBlock: formatHistoryBlock(history),
	})
	if err != nil {
		span.RecordError(err)
		return "", apperrors.Wrap(err, apperrors.CodeCompletionFailed, "support completion failed")
	}
	return strings.TrimSpace(msg.Content), nil
}

// formatHistoryBlock 把历史消息拼成 "ROLE: content" 文本块
func formatHistoryBlock(history []entity.Message) string {
	var b strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n\n", strings.ToUpper(string(msg.Role)), msg.Content)
	}
	return b.String()
}
