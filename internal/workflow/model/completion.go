// Package model 定义工作流层的输入输出模型
package model

// ScadCodeInput OpenSCAD 代码生成链的输入
type ScadCodeInput struct {
	// Provider LLM 提供商名，空串走默认
	Provider string
	// Model 覆写模型名，空串用提供商默认
	Model string
	// Prompt 用户建模需求描述
	Prompt string
	// Temperature 覆写采样温度
	Temperature *float32
	// MaxTokens 覆写最大生成长度
	MaxTokens *int
}

// SupportChatInput 客服应答链的输入
type SupportChatInput struct {
	// Provider LLM 提供商名，空串走默认
	Provider string
	// Model 覆写模型名，空串用提供商默认
	Model string
	// HistoryBlock 已格式化的对话历史文本
	HistoryBlock string
	// Temperature 覆写采样温度
	Temperature *float32
	// MaxTokens 覆写最大生成长度
	MaxTokens *int
}
