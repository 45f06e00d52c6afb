// Package synthesis 将提示词与参数集合成 OpenSCAD 源码
package synthesis

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/pkg/logger"
	"model3d-ai-api/pkg/metrics"
)

// TemplateFinder 模板目录查询接口
type TemplateFinder interface {
	// Find 查找模板，未命中返回空模板
	Find(ctx context.Context, query string) entity.Template
}

// Completer 文本补全后端
// 后端未配置时返回包裹 ErrCompletionUnavailable 的错误，调用方按干净失败处理
type Completer interface {
	// CompleteCode 按提示词生成 OpenSCAD 代码
	CompleteCode(ctx context.Context, prompt string) (string, error)
}

// ArtifactStore 模型文件持久化接口
type ArtifactStore interface {
	// Save 保存代码并生成预览/导出文件
	Save(ctx context.Context, code, userID, name string, source entity.SynthesisSource) (*entity.ModelArtifact, error)
}

// Generator 代码合成器
// 解析顺序：模板 -> 补全后端 -> 静态兜底；兜底路径必定成功
type Generator struct {
	catalog   TemplateFinder
	completer Completer
	store     ArtifactStore
}

// NewGenerator 创建代码合成器
func NewGenerator(catalog TemplateFinder, completer Completer, store ArtifactStore) *Generator {
	return &Generator{
		catalog:   catalog,
		completer: completer,
		store:     store,
	}
}

// Generate 合成 OpenSCAD 代码
// userID 非空时尝试持久化产物；持久化失败降级为仅返回代码，不传播错误
func (g *Generator) Generate(ctx context.Context, prompt string, parameters map[string]entity.ParameterValue, userID string) (*entity.SynthesisResult, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	result := g.resolve(ctx, prompt, parameters)
	result.Parameters = parameters

	metrics.GenerationTotal.WithLabelValues(string(result.Source), "success").Inc()
	metrics.GenerationDuration.WithLabelValues(string(result.Source)).Observe(time.Since(start).Seconds())
	log.Info("code synthesized", "source", result.Source, "prompt", prompt)

	if userID != "" && g.store != nil && result.Code != "" {
		name := modelNameFromPrompt(prompt)
		artifact, err := g.store.Save(ctx, result.Code, userID, name, result.Source)
		if err != nil {
			log.Warn("artifact persistence failed", "user_id", userID, "error", err.Error())
		} else {
			result.Artifact = artifact
		}
	}

	return result, nil
}

// resolve 依次尝试各级代码来源
func (g *Generator) resolve(ctx context.Context, prompt string, parameters map[string]entity.ParameterValue) *entity.SynthesisResult {
	log := logger.FromContext(ctx)

	// 1. 模板命中即采用
	if g.catalog != nil {
		tmpl := g.catalog.Find(ctx, prompt)
		if !tmpl.IsEmpty() {
			log.Info("template matched", "url", tmpl.Source.URL)
			return &entity.SynthesisResult{
				Code:   ApplyParameters(tmpl.Code, parameters),
				Source: entity.SynthesisSourceTemplate,
				Origin: &tmpl.Source,
			}
		}
	}

	// 2. 补全后端；后端不可用或输出为空均降级
	if g.completer != nil {
		codePrompt := fmt.Sprintf("Create OpenSCAD code for: %s", prompt)
		raw, err := g.completer.CompleteCode(ctx, codePrompt)
		if err != nil {
			log.Warn("completion failed, falling back", "error", err.Error())
		} else if code := ExtractCode(raw); code != "" {
			return &entity.SynthesisResult{
				Code:   ApplyParameters(code, parameters),
				Source: entity.SynthesisSourceGenerated,
			}
		}
	}

	// 3. 静态兜底，不会失败
	log.Warn("falling back to static templates", "prompt", prompt)
	return &entity.SynthesisResult{
		Code:   fallbackCode(prompt, parameters),
		Source: entity.SynthesisSourceFallback,
	}
}

// ApplyParameters 把用户参数写回代码中的同名赋值
// 只改写每个名字的第一处 name = value; 赋值，其余保持原样
func ApplyParameters(code string, parameters map[string]entity.ParameterValue) string {
	for name, value := range parameters {
		pattern := regexp.MustCompile(`(` + regexp.QuoteMeta(name) + `\s*=\s*)([^;]+)(;)`)
		loc := pattern.FindStringSubmatchIndex(code)
		if loc == nil {
			continue
		}
		code = code[:loc[4]] + value.Literal() + code[loc[5]:]
	}
	return code
}
