// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// ParameterKind 参数值类型
type ParameterKind string

const (
	ParameterKindNumber  ParameterKind = "number"
	ParameterKindBoolean ParameterKind = "boolean"
	ParameterKindString  ParameterKind = "string"
	ParameterKindArray   ParameterKind = "array"
	ParameterKindUnknown ParameterKind = "unknown"
)

// InferParameterKind 从源码中的字面量推断参数类型
func InferParameterKind(raw string) ParameterKind {
	s := strings.TrimSpace(raw)
	switch {
	case s == "true" || s == "false":
		return ParameterKindBoolean
	case strings.HasPrefix(s, `"`):
		return ParameterKindString
	case strings.HasPrefix(s, "["):
		return ParameterKindArray
	default:
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return ParameterKindNumber
		}
		return ParameterKindUnknown
	}
}

// ParameterSpec 参数规格：名称、默认值字面量与类型
type ParameterSpec struct {
	Name    string        `json:"name"`
	Default string        `json:"default"`
	Kind    ParameterKind `json:"kind"`
}

// ParameterValue 已收集的参数值，带类型标签
type ParameterValue struct {
	Kind    ParameterKind `json:"kind"`
	Number  float64       `json:"number,omitempty"`
	Boolean bool          `json:"boolean,omitempty"`
	Text    string        `json:"text,omitempty"`
}

// NumberValue 构造数值参数
func NumberValue(n float64) ParameterValue {
	return ParameterValue{Kind: ParameterKindNumber, Number: n}
}

// BooleanValue 构造布尔参数
func BooleanValue(b bool) ParameterValue {
	return ParameterValue{Kind: ParameterKindBoolean, Boolean: b}
}

// TextValue 构造文本参数
func TextValue(s string) ParameterValue {
	return ParameterValue{Kind: ParameterKindString, Text: s}
}

// Literal 返回可直接写入 OpenSCAD 源码的字面量
func (v ParameterValue) Literal() string {
	switch v.Kind {
	case ParameterKindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ParameterKindBoolean:
		return strconv.FormatBool(v.Boolean)
	default:
		return v.Text
	}
}

// String 实现 fmt.Stringer
func (v ParameterValue) String() string {
	return fmt.Sprintf("%s(%s)", v.Kind, v.Literal())
}
