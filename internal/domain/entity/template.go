// Package entity 定义领域实体
package entity

// TemplateSource 模板来源的页面地址
type TemplateSource struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Template 从外部页面获取的 OpenSCAD 模板
type Template struct {
	Code       string          `json:"code"`
	Source     TemplateSource  `json:"source"`
	Parameters []ParameterSpec `json:"parameters,omitempty"`
}

// IsEmpty 判断是否为未命中占位模板
func (t Template) IsEmpty() bool {
	return t.Code == ""
}
