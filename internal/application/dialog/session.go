// Package dialog 驱动参数收集对话状态机
package dialog

import (
	"sync"

	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/pkg/metrics"
)

// Session 单个用户的会话句柄
// 调用方在整个消息处理期间持锁，保证同一用户的消息串行处理
type Session struct {
	mu    sync.Mutex
	State *entity.ConversationState
}

// Lock 锁定会话
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock 解锁会话
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// SessionStore 会话存储接口
type SessionStore interface {
	// GetOrCreate 取出用户会话，不存在时惰性创建
	GetOrCreate(userID string) *Session
}

// InMemorySessionStore 进程内会话存储
// 无持久化也无淘汰，进程重启即清空
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemorySessionStore 创建进程内会话存储
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate 取出用户会话，不存在时惰性创建
func (s *InMemorySessionStore) GetOrCreate(userID string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	sess = &Session{State: entity.NewConversationState(userID)}
	s.sessions[userID] = sess
	metrics.ActiveSessions.Inc()
	return sess
}
