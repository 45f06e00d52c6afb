package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model3d-ai-api/internal/domain/entity"
	apperrors "model3d-ai-api/pkg/errors"
)

type fakeSynth struct {
	calls  int
	result *entity.SynthesisResult
	err    error
}

func (f *fakeSynth) Generate(ctx context.Context, prompt string, parameters map[string]entity.ParameterValue, userID string) (*entity.SynthesisResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &entity.SynthesisResult{
		Code:       "cube([1, 1, 1]);",
		Source:     entity.SynthesisSourceFallback,
		Parameters: parameters,
	}, nil
}

type fakeResponder struct {
	reply string
	err   error
}

func (f *fakeResponder) RespondSupport(ctx context.Context, history []entity.Message) (string, error) {
	return f.reply, f.err
}

type fakeGate struct {
	authorizeErr error
	charges      int
}

func (f *fakeGate) Authorize(ctx context.Context, userID string) error { return f.authorizeErr }

func (f *fakeGate) Charge(ctx context.Context, userID string) error {
	f.charges++
	return nil
}

func newTestEngine(synth Synthesizer, responder Responder, gate BillingGate) *Engine {
	return NewEngine(NewInMemorySessionStore(), nil, synth, responder, gate)
}

func TestHandleMessageSlotFilling(t *testing.T) {
	synth := &fakeSynth{}
	e := newTestEngine(synth, nil, nil)
	ctx := context.Background()

	// 第一轮：识别建模请求，进入参数收集
	reply := e.HandleMessage(ctx, "u1", "create a cube")
	assert.Contains(t, reply.Text, "To create your cube")
	assert.Contains(t, reply.Text, "width")
	assert.Empty(t, reply.Code)
	assert.Equal(t, 0, synth.calls)

	// 第二轮：只给部分参数，继续追问
	reply = e.HandleMessage(ctx, "u1", "width is 15")
	assert.Contains(t, reply.Text, "height")
	assert.NotContains(t, reply.Text, "What width")
	assert.Equal(t, 0, synth.calls)

	// 第三轮：补齐剩余参数，触发合成
	reply = e.HandleMessage(ctx, "u1", "height is 20 and depth is 5")
	assert.Equal(t, 1, synth.calls)
	assert.Contains(t, reply.Text, "OpenSCAD model")
	assert.NotEmpty(t, reply.Code)
	assert.Equal(t, entity.NumberValue(15), reply.Parameters["width"])
	assert.Equal(t, entity.NumberValue(20), reply.Parameters["height"])
	assert.Equal(t, entity.NumberValue(5), reply.Parameters["depth"])
}

func TestHandleMessageInlineParametersSkipCollection(t *testing.T) {
	synth := &fakeSynth{}
	e := newTestEngine(synth, nil, nil)

	reply := e.HandleMessage(context.Background(), "u1",
		"create a cube with width 10, height 20 and depth 5")

	assert.Equal(t, 1, synth.calls)
	assert.NotEmpty(t, reply.Code)
}

func TestHandleMessageUseDefaults(t *testing.T) {
	synth := &fakeSynth{}
	e := newTestEngine(synth, nil, nil)
	ctx := context.Background()

	e.HandleMessage(ctx, "u1", "create a sphere")
	reply := e.HandleMessage(ctx, "u1", "use defaults")

	assert.Equal(t, 1, synth.calls)
	assert.Equal(t, entity.NumberValue(10), reply.Parameters["radius"])
}

func TestHandleMessageSynthesisFailureApologizes(t *testing.T) {
	synth := &fakeSynth{err: errors.New("backend exploded")}
	e := newTestEngine(synth, nil, nil)
	ctx := context.Background()

	e.HandleMessage(ctx, "u1", "create a sphere")
	reply := e.HandleMessage(ctx, "u1", "use defaults")

	// 内部错误细节不外泄，固定致歉话术
	assert.Equal(t, apologyText, reply.Text)
	assert.Empty(t, reply.Code)

	// 会话已复位，可以重新开始请求
	reply = e.HandleMessage(ctx, "u1", "create a cube")
	assert.Contains(t, reply.Text, "To create your cube")
}

func TestHandleMessageSupportWithoutResponder(t *testing.T) {
	e := newTestEngine(&fakeSynth{}, nil, nil)

	reply := e.HandleMessage(context.Background(), "u1", "hello there")
	assert.Equal(t, unavailableText, reply.Text)
}

func TestHandleMessageSupportUnavailableBackend(t *testing.T) {
	responder := &fakeResponder{err: apperrors.ErrCompletionUnavailable}
	e := newTestEngine(&fakeSynth{}, responder, nil)

	reply := e.HandleMessage(context.Background(), "u1", "hello there")
	assert.Equal(t, unavailableText, reply.Text)
}

func TestHandleMessageSupportBackendFailureApologizes(t *testing.T) {
	responder := &fakeResponder{err: errors.New("upstream timeout")}
	e := newTestEngine(&fakeSynth{}, responder, nil)

	reply := e.HandleMessage(context.Background(), "u1", "hello there")
	assert.Equal(t, apologyText, reply.Text)
}

func TestHandleMessageSupportStripsRolePrefix(t *testing.T) {
	responder := &fakeResponder{reply: "ASSISTANT: happy to help"}
	e := newTestEngine(&fakeSynth{}, responder, nil)

	reply := e.HandleMessage(context.Background(), "u1", "hello there")
	assert.Equal(t, "happy to help", reply.Text)
}

func TestHandleMessageBillingDenied(t *testing.T) {
	synth := &fakeSynth{}
	gate := &fakeGate{authorizeErr: apperrors.ErrInsufficientTokens}
	e := newTestEngine(synth, nil, gate)
	ctx := context.Background()

	e.HandleMessage(ctx, "u1", "create a sphere")
	reply := e.HandleMessage(ctx, "u1", "use defaults")

	assert.Equal(t, noTokensText, reply.Text)
	assert.Equal(t, 0, synth.calls)
	assert.Equal(t, 0, gate.charges)
}

func TestHandleMessageBillingCharged(t *testing.T) {
	synth := &fakeSynth{}
	gate := &fakeGate{}
	e := newTestEngine(synth, nil, gate)
	ctx := context.Background()

	e.HandleMessage(ctx, "u1", "create a sphere")
	e.HandleMessage(ctx, "u1", "use defaults")

	assert.Equal(t, 1, synth.calls)
	assert.Equal(t, 1, gate.charges)
}

func TestHandleMessageSessionsIsolated(t *testing.T) {
	synth := &fakeSynth{}
	e := newTestEngine(synth, nil, nil)
	ctx := context.Background()

	e.HandleMessage(ctx, "u1", "create a cube")
	reply := e.HandleMessage(ctx, "u2", "width is 15")

	// u2 没有进行中的请求，消息走客服分支
	assert.Equal(t, unavailableText, reply.Text)
	assert.Equal(t, 0, synth.calls)
}

func TestHandleMessageHistoryRecorded(t *testing.T) {
	store := NewInMemorySessionStore()
	e := NewEngine(store, nil, &fakeSynth{}, nil, nil)

	e.HandleMessage(context.Background(), "u1", "create a cube")

	sess := store.GetOrCreate("u1")
	sess.Lock()
	defer sess.Unlock()
	require.Len(t, sess.State.History, 2)
	assert.Equal(t, entity.RoleUser, sess.State.History[0].Role)
	assert.Equal(t, entity.RoleAssistant, sess.State.History[1].Role)
}
