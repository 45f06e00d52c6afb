// Package dialog 驱动参数收集对话状态机
package dialog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"model3d-ai-api/internal/application/classify"
	"model3d-ai-api/internal/application/params"
	"model3d-ai-api/internal/domain/entity"
	apperrors "model3d-ai-api/pkg/errors"
	"model3d-ai-api/pkg/logger"
)

// 用户可见的固定话术，任何内部错误细节都不外泄
const (
	unavailableText = "I'm sorry, but the service is currently unavailable. Please try again later."
	apologyText     = "I'm sorry, I'm experiencing technical difficulties. Please try again later."
	readyText       = "Here's your OpenSCAD model! You can copy this code into OpenSCAD to view and customize it further."
	noTokensText    = "You don't have enough tokens to generate a model. Please top up your balance to continue."
)

var assistantPrefixRe = regexp.MustCompile(`^ASSISTANT:\s*`)

// historyWindow 客服应答携带的历史轮数
const historyWindow = 5

// Synthesizer 代码合成接口
type Synthesizer interface {
	// Generate 合成 OpenSCAD 代码
	Generate(ctx context.Context, prompt string, parameters map[string]entity.ParameterValue, userID string) (*entity.SynthesisResult, error)
}

// Responder 客服人设应答接口
type Responder interface {
	// RespondSupport 按客服人设回答，history 已包含当前用户消息
	RespondSupport(ctx context.Context, history []entity.Message) (string, error)
}

// TemplateFinder 模板目录查询接口
type TemplateFinder interface {
	Find(ctx context.Context, query string) entity.Template
}

// BillingGate 合成前的计费闸门
// 匿名会话用户不在计费范围内，实现方应直接放行
type BillingGate interface {
	// Authorize 判断用户能否负担一次生成
	Authorize(ctx context.Context, userID string) error

	// Charge 在生成成功后扣费
	Charge(ctx context.Context, userID string) error
}

// Reply 一次消息处理的应答
type Reply struct {
	Text       string                           `json:"text"`
	Code       string                           `json:"code,omitempty"`
	Source     entity.SynthesisSource           `json:"source,omitempty"`
	Parameters map[string]entity.ParameterValue `json:"parameters,omitempty"`
	Artifact   *entity.ModelArtifact            `json:"artifact,omitempty"`
}

// Engine 对话状态机
// 状态循环 general -> collecting_parameters -> generating -> general；
// 所有失败路径都转为固定话术，绝不向调用方抛错
type Engine struct {
	sessions  SessionStore
	catalog   TemplateFinder
	synth     Synthesizer
	responder Responder
	gate      BillingGate
}

// NewEngine 创建对话状态机
// gate 可以为 nil，表示不启用计费
func NewEngine(sessions SessionStore, catalog TemplateFinder, synth Synthesizer, responder Responder, gate BillingGate) *Engine {
	return &Engine{
		sessions:  sessions,
		catalog:   catalog,
		synth:     synth,
		responder: responder,
		gate:      gate,
	}
}

// HandleMessage 处理一条用户消息
// 每个分支都把用户与助手消息写入历史
func (e *Engine) HandleMessage(ctx context.Context, userID, message string) *Reply {
	sess := e.sessions.GetOrCreate(userID)
	sess.Lock()
	defer sess.Unlock()

	state := sess.State
	state.Append(entity.RoleUser, message)

	switch {
	case state.Phase == entity.PhaseGeneral && classify.Classify(message):
		return e.startRequest(ctx, state, message)
	case state.Phase == entity.PhaseCollectingParameters:
		return e.collectParameters(ctx, state, message)
	default:
		return e.respondSupport(ctx, state)
	}
}

// startRequest 开始一次建模请求：解析形状与内联参数，确定待收集的参数集
func (e *Engine) startRequest(ctx context.Context, state *entity.ConversationState, message string) *Reply {
	modelType, inline := classify.ParseRequest(message)
	state.ModelType = modelType
	state.Collected = inline

	// 模板能给出参数规格时优先用模板，否则用固定的兜底规格表
	state.Needed = nil
	if e.catalog != nil {
		if tmpl := e.catalog.Find(ctx, modelType); !tmpl.IsEmpty() {
			state.Needed = tmpl.Parameters
		}
	}
	if len(state.Needed) == 0 {
		state.Needed = fallbackSpecs(modelType)
	}

	missing := state.Missing()
	if len(missing) > 0 {
		state.Phase = entity.PhaseCollectingParameters
		text := parameterRequest(missing, modelType)
		state.Append(entity.RoleAssistant, text)
		return &Reply{Text: text}
	}

	return e.synthesize(ctx, state)
}

// collectParameters 从应答中提取参数并合并，收齐即合成
func (e *Engine) collectParameters(ctx context.Context, state *entity.ConversationState, message string) *Reply {
	extracted := params.Extract(message, state.Needed)
	for name, value := range extracted {
		state.Collected[name] = value
	}

	missing := state.Missing()
	if len(missing) > 0 {
		text := parameterRequest(missing, state.ModelType)
		state.Append(entity.RoleAssistant, text)
		return &Reply{Text: text}
	}

	return e.synthesize(ctx, state)
}

// synthesize 进入 generating 状态并触发合成
// 合成失败回到 general 并致歉，会话不会卡死在 generating
func (e *Engine) synthesize(ctx context.Context, state *entity.ConversationState) *Reply {
	log := logger.FromContext(ctx)
	state.Phase = entity.PhaseGenerating

	if e.gate != nil {
		if err := e.gate.Authorize(ctx, state.UserID); err != nil {
			log.Warn("generation not affordable", "user_id", state.UserID, "error", err.Error())
			state.Reset()
			state.Append(entity.RoleAssistant, noTokensText)
			return &Reply{Text: noTokensText}
		}
	}

	result, err := e.synth.Generate(ctx, state.ModelType, state.Collected, state.UserID)
	if err != nil {
		logger.Error(ctx, "synthesis failed", err, "user_id", state.UserID, "model_type", state.ModelType)
		state.Reset()
		state.Append(entity.RoleAssistant, apologyText)
		return &Reply{Text: apologyText}
	}

	if e.gate != nil {
		if err := e.gate.Charge(ctx, state.UserID); err != nil {
			// 扣费失败不回滚已生成的模型，只记录
			log.Warn("charge failed", "user_id", state.UserID, "error", err.Error())
		}
	}

	state.Reset()
	state.Append(entity.RoleAssistant, readyText)
	return &Reply{
		Text:       readyText,
		Code:       result.Code,
		Source:     result.Source,
		Parameters: result.Parameters,
		Artifact:   result.Artifact,
	}
}

// respondSupport 非建模消息走客服人设应答
func (e *Engine) respondSupport(ctx context.Context, state *entity.ConversationState) *Reply {
	if e.responder == nil {
		state.Append(entity.RoleAssistant, unavailableText)
		return &Reply{Text: unavailableText}
	}

	history := state.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	text, err := e.responder.RespondSupport(ctx, history)
	if err != nil {
		if errors.Is(err, apperrors.ErrCompletionUnavailable) {
			state.Append(entity.RoleAssistant, unavailableText)
			return &Reply{Text: unavailableText}
		}
		logger.Error(ctx, "support response failed", err, "user_id", state.UserID)
		state.Append(entity.RoleAssistant, apologyText)
		return &Reply{Text: apologyText}
	}

	text = strings.TrimSpace(assistantPrefixRe.ReplaceAllString(text, ""))
	state.Append(entity.RoleAssistant, text)
	return &Reply{Text: text}
}

// fallbackSpecs 模板未给出参数规格时按形状使用固定规格表
func fallbackSpecs(modelType string) []entity.ParameterSpec {
	switch modelType {
	case "cube", "box":
		return []entity.ParameterSpec{
			{Name: "width", Default: "10", Kind: entity.ParameterKindNumber},
			{Name: "height", Default: "10", Kind: entity.ParameterKindNumber},
			{Name: "depth", Default: "10", Kind: entity.ParameterKindNumber},
		}
	case "sphere", "ball":
		return []entity.ParameterSpec{
			{Name: "radius", Default: "10", Kind: entity.ParameterKindNumber},
		}
	case "cylinder", "tube":
		return []entity.ParameterSpec{
			{Name: "radius", Default: "5", Kind: entity.ParameterKindNumber},
			{Name: "height", Default: "20", Kind: entity.ParameterKindNumber},
		}
	case "cone":
		return []entity.ParameterSpec{
			{Name: "radius1", Default: "10", Kind: entity.ParameterKindNumber},
			{Name: "radius2", Default: "0", Kind: entity.ParameterKindNumber},
			{Name: "height", Default: "20", Kind: entity.ParameterKindNumber},
		}
	default:
		return []entity.ParameterSpec{
			{Name: "size", Default: "10", Kind: entity.ParameterKindNumber},
		}
	}
}

// parameterRequest 生成向用户追问缺失参数的话术
func parameterRequest(missing []entity.ParameterSpec, modelType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To create your %s, I need a few more details.\n\n", modelType)

	for _, spec := range missing {
		switch spec.Name {
		case "width":
			fmt.Fprintf(&b, "- What width would you like? (default is %s)\n", spec.Default)
		case "height":
			fmt.Fprintf(&b, "- What height would you like? (default is %s)\n", spec.Default)
		case "depth":
			fmt.Fprintf(&b, "- What depth would you like? (default is %s)\n", spec.Default)
		case "radius":
			fmt.Fprintf(&b, "- What radius would you like? (default is %s)\n", spec.Default)
		case "radius1":
			fmt.Fprintf(&b, "- What base radius would you like? (default is %s)\n", spec.Default)
		case "radius2":
			fmt.Fprintf(&b, "- What top radius would you like? (default is %s)\n", spec.Default)
		default:
			fmt.Fprintf(&b, "- What %s would you like? (default is %s)\n", spec.Name, spec.Default)
		}
	}

	b.WriteString("\nYou can specify these all at once or one at a time. Or just say 'use defaults' to use the default values.")
	return b.String()
}
