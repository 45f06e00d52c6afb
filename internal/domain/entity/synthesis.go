// Package entity 定义领域实体
package entity

// SynthesisSource 合成代码的来源标签
type SynthesisSource string

const (
	SynthesisSourceTemplate  SynthesisSource = "template"
	SynthesisSourceGenerated SynthesisSource = "generated"
	SynthesisSourceFallback  SynthesisSource = "fallback"
)

// SynthesisResult 一次代码合成的产出
type SynthesisResult struct {
	Code       string                    `json:"code"`
	Source     SynthesisSource           `json:"source"`
	Origin     *TemplateSource           `json:"origin,omitempty"`
	Parameters map[string]ParameterValue `json:"parameters,omitempty"`
	Artifact   *ModelArtifact            `json:"artifact,omitempty"`
}
