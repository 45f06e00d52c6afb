// Package template 维护 OpenSCAD 模板目录
package template

import (
	"regexp"
	"strings"

	"model3d-ai-api/internal/domain/entity"
)

// 循环变量等内部标识符不算模板参数
var reservedNames = map[string]bool{
	"i": true, "j": true, "x": true, "y": true, "z": true,
	"temp": true, "tmp": true, "result": true,
}

var (
	assignmentRe = regexp.MustCompile(`(\w+)\s*=\s*([^;]+);`)
	moduleSigRe  = regexp.MustCompile(`module\s+\w+\s*\(`)
)

// ExtractParameters 静态分析 OpenSCAD 源码，提取参数名与默认值
// 扫描顶层变量赋值与 module 签名，module 参数覆盖同名赋值
func ExtractParameters(code string) []entity.ParameterSpec {
	var specs []entity.ParameterSpec
	index := make(map[string]int)

	put := func(spec entity.ParameterSpec) {
		if i, ok := index[spec.Name]; ok {
			specs[i] = spec
			return
		}
		index[spec.Name] = len(specs)
		specs = append(specs, spec)
	}

	for _, match := range assignmentRe.FindAllStringSubmatch(code, -1) {
		name := match[1]
		if reservedNames[name] {
			continue
		}
		value := strings.TrimSpace(match[2])
		put(entity.ParameterSpec{
			Name:    name,
			Default: value,
			Kind:    entity.InferParameterKind(value),
		})
	}

	for _, loc := range moduleSigRe.FindAllStringIndex(code, -1) {
		args, ok := balancedArgs(code[loc[1]:])
		if !ok {
			continue
		}
		args = strings.TrimSpace(args)
		if args == "" {
			continue
		}
		for _, arg := range splitArgs(args) {
			name, value, hasDefault := strings.Cut(arg, "=")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !hasDefault {
				put(entity.ParameterSpec{Name: name, Kind: entity.ParameterKindUnknown})
				continue
			}
			value = strings.TrimSpace(value)
			put(entity.ParameterSpec{
				Name:    name,
				Default: value,
				Kind:    entity.InferParameterKind(value),
			})
		}
	}

	return specs
}

// balancedArgs 截取已开括号的参数列表，直到配平的右括号
// 默认值里的嵌套调用会抬高深度，不会提前截断
func balancedArgs(rest string) (string, bool) {
	depth := 1
	for i, ch := range rest {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return rest[:i], true
			}
		}
	}
	return "", false
}

// splitArgs 按逗号切分参数列表
// 用 ()/[] 嵌套深度计数，避免默认值里的嵌套调用和数组被错切
func splitArgs(args string) []string {
	var items []string
	var current strings.Builder
	depth := 0

	for _, ch := range args {
		switch ch {
		case '(', '[':
			depth++
			current.WriteRune(ch)
		case ')', ']':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				items = append(items, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		items = append(items, strings.TrimSpace(current.String()))
	}

	return items
}
