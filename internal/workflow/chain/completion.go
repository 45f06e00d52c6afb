package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	wfmodel "model3d-ai-api/internal/workflow/model"
	workflowport "model3d-ai-api/internal/workflow/port"
	workflowprompt "model3d-ai-api/internal/workflow/prompt"
)

var defaultPromptRegistry = workflowprompt.NewRegistry()

// ScadCodeChain OpenSCAD 代码生成链
type ScadCodeChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.ScadCodeInput, *schema.Message]
	chainErr  error
}

func NewScadCodeChain(factory workflowport.ChatModelFactory) *ScadCodeChain {
	return &ScadCodeChain{factory: factory}
}

func (c *ScadCodeChain) Invoke(ctx context.Context, in *wfmodel.ScadCodeInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type scadCodeChainState struct {
	In       *wfmodel.ScadCodeInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *ScadCodeChain) getChain() (compose.Runnable[*wfmodel.ScadCodeInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *ScadCodeChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.ScadCodeInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.ScadCodeInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.ScadCodeInput) (*scadCodeChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &scadCodeChainState{In: in}, nil
		}),
		compose.WithNodeName("scad_code.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *scadCodeChainState) (*scadCodeChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptScadCoderV1)
			if err != nil {
				return nil, err
			}
			msgs, err := tpl.Format(ctx, map[string]any{
				"prompt": strings.TrimSpace(st.In.Prompt),
			})
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("scad_code.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *scadCodeChainState) (*scadCodeChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildModelOptions(st.In.Model, st.In.Temperature, st.In.MaxTokens)...)
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("scad_code.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *scadCodeChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("scad_code.finalize"),
	)

	return chain.Compile(ctx)
}

// SupportChatChain 客服应答链
type SupportChatChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.SupportChatInput, *schema.Message]
	chainErr  error
}

func NewSupportChatChain(factory workflowport.ChatModelFactory) *SupportChatChain {
	return &SupportChatChain{factory: factory}
}

func (c *SupportChatChain) Invoke(ctx context.Context, in *wfmodel.SupportChatInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type supportChatChainState struct {
	In       *wfmodel.SupportChatInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *SupportChatChain) getChain() (compose.Runnable[*wfmodel.SupportChatInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *SupportChatChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.SupportChatInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.SupportChatInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.SupportChatInput) (*supportChatChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &supportChatChainState{In: in}, nil
		}),
		compose.WithNodeName("support_chat.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *supportChatChainState) (*supportChatChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptSupportChatV1)
			if err != nil {
				return nil, err
			}
			msgs, err := tpl.Format(ctx, map[string]any{
				"history_block": st.In.HistoryBlock,
			})
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("support_chat.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *supportChatChainState) (*supportChatChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildModelOptions(st.In.Model, st.In.Temperature, st.In.MaxTokens)...)
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("support_chat.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *supportChatChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("support_chat.finalize"),
	)

	return chain.Compile(ctx)
}

func buildModelOptions(modelName string, temperature *float32, maxTokens *int) []model.Option {
	opts := make([]model.Option, 0, 3)
	if temperature != nil {
		opts = append(opts, model.WithTemperature(*temperature))
	}
	if maxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*maxTokens))
	}
	if strings.TrimSpace(modelName) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(modelName)))
	}
	return opts
}
