// Package entity 定义领域实体
package entity

import (
	"time"
)

// Phase 会话所处阶段
type Phase string

const (
	PhaseGeneral              Phase = "general"
	PhaseCollectingParameters Phase = "collecting_parameters"
	PhaseGenerating           Phase = "generating"
)

// Message 会话历史中的一条消息
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage 创建新消息
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// ConversationState 单个用户的会话状态
// 仅存于内存，进程重启即丢失
type ConversationState struct {
	UserID    string                    `json:"user_id"`
	Phase     Phase                     `json:"phase"`
	ModelType string                    `json:"model_type,omitempty"`
	Needed    []ParameterSpec           `json:"needed,omitempty"`
	Collected map[string]ParameterValue `json:"collected,omitempty"`
	History   []Message                 `json:"history"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// NewConversationState 创建初始会话状态
func NewConversationState(userID string) *ConversationState {
	return &ConversationState{
		UserID:    userID,
		Phase:     PhaseGeneral,
		Collected: make(map[string]ParameterValue),
		UpdatedAt: time.Now(),
	}
}

// Append 追加一条历史消息
func (s *ConversationState) Append(role Role, content string) {
	s.History = append(s.History, NewMessage(role, content))
	s.UpdatedAt = time.Now()
}

// Missing 返回尚未收集的参数规格，保持声明顺序
func (s *ConversationState) Missing() []ParameterSpec {
	var missing []ParameterSpec
	for _, spec := range s.Needed {
		if _, ok := s.Collected[spec.Name]; !ok {
			missing = append(missing, spec)
		}
	}
	return missing
}

// Reset 回到通用阶段并清空收集进度
func (s *ConversationState) Reset() {
	s.Phase = PhaseGeneral
	s.ModelType = ""
	s.Needed = nil
	s.Collected = make(map[string]ParameterValue)
	s.UpdatedAt = time.Now()
}
