// Package params 从自然语言消息中提取参数值
package params

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"model3d-ai-api/internal/domain/entity"
)

// Extract 针对需要收集的参数规格，从一条消息中提取参数值
// 纯函数，同样输入必定产生同样输出；单个字段解析失败只跳过该字段
func Extract(message string, needed []entity.ParameterSpec) map[string]entity.ParameterValue {
	collected := make(map[string]entity.ParameterValue)
	lower := strings.ToLower(message)

	// "use defaults" 快捷路径：全部按默认值收集
	if strings.Contains(lower, "default") {
		for _, spec := range needed {
			if spec.Default == "" {
				continue
			}
			switch spec.Kind {
			case entity.ParameterKindNumber:
				n, err := strconv.ParseFloat(spec.Default, 64)
				if err != nil {
					// 非法数值默认值直接跳过，不报错
					continue
				}
				collected[spec.Name] = entity.NumberValue(n)
			case entity.ParameterKindBoolean:
				collected[spec.Name] = entity.BooleanValue(strings.EqualFold(spec.Default, "true"))
			default:
				collected[spec.Name] = entity.TextValue(spec.Default)
			}
		}
		return collected
	}

	// 每个参数依次尝试三种赋值句式，命中即停
	for _, spec := range needed {
		name := regexp.QuoteMeta(strings.ToLower(spec.Name))
		patterns := []string{
			fmt.Sprintf(`%s\s+(?:is|should be|=)\s+(\d+\.?\d*)`, name),
			fmt.Sprintf(`(?:set|make)\s+(?:the)?\s*%s\s+(?:to|=)\s+(\d+\.?\d*)`, name),
			fmt.Sprintf(`%s:\s*(\d+\.?\d*)`, name),
		}
		for _, pattern := range patterns {
			match := regexp.MustCompile(pattern).FindStringSubmatch(lower)
			if match == nil {
				continue
			}
			n, err := strconv.ParseFloat(match[1], 64)
			if err != nil {
				continue
			}
			collected[spec.Name] = entity.NumberValue(n)
			break
		}
	}

	// 带单位的长度可以覆盖句式匹配到的标准维度名
	ApplyMeasurements(lower, collected)

	return collected
}
