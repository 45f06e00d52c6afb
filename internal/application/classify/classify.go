// Package classify 识别建模意图并解析初始请求
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"model3d-ai-api/internal/application/params"
	"model3d-ai-api/internal/domain/entity"
)

// 动作词表：出现其一才视为建模动作
var actionKeywords = []string{
	"create", "generate", "make", "build", "design", "model",
	"3d model", "3d object", "3d print", "openscad",
}

// 对象词表：可以被建模的物体
var objectKeywords = []string{
	"cube", "box", "sphere", "ball", "cylinder", "tube", "cone",
	"pyramid", "object", "shape", "gear", "bracket", "holder",
	"stand", "case", "container", "part",
}

// 维度关键词句式，如 "width of 10" 或 "radius 5"
// 顺序固定，diameter 在 radius 之后，二者同时出现时 diameter 覆盖
var dimensionPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"width", regexp.MustCompile(`width(?:\s+of)?\s+(\d+\.?\d*)`)},
	{"height", regexp.MustCompile(`height(?:\s+of)?\s+(\d+\.?\d*)`)},
	{"depth", regexp.MustCompile(`depth(?:\s+of)?\s+(\d+\.?\d*)`)},
	{"radius", regexp.MustCompile(`radius(?:\s+of)?\s+(\d+\.?\d*)`)},
	{"diameter", regexp.MustCompile(`diameter(?:\s+of)?\s+(\d+\.?\d*)`)},
}

// Classify 判断一条消息是否在请求创建 3D 模型
// 大小写不敏感的子串匹配，不做词边界校验（"boxer" 会匹配 "box"）
func Classify(message string) bool {
	lower := strings.ToLower(message)

	hasAction := false
	for _, keyword := range actionKeywords {
		if strings.Contains(lower, keyword) {
			hasAction = true
			break
		}
	}
	if !hasAction {
		return false
	}

	for _, keyword := range objectKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// ParseRequest 解析建模请求，识别形状类型与内联参数
// 无法识别形状时默认为 cube
func ParseRequest(message string) (string, map[string]entity.ParameterValue) {
	lower := strings.ToLower(message)

	modelType := "cube"
	switch {
	case strings.Contains(lower, "sphere") || strings.Contains(lower, "ball"):
		modelType = "sphere"
	case strings.Contains(lower, "cylinder") || strings.Contains(lower, "tube"):
		modelType = "cylinder"
	case strings.Contains(lower, "cone"):
		modelType = "cone"
	case strings.Contains(lower, "pyramid"):
		modelType = "pyramid"
	case strings.Contains(lower, "gear"):
		modelType = "gear"
	case strings.Contains(lower, "box") || strings.Contains(lower, "cube"):
		modelType = "cube"
	}

	parameters := make(map[string]entity.ParameterValue)
	for _, dim := range dimensionPatterns {
		match := dim.pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		n, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if dim.name == "diameter" {
			parameters["radius"] = entity.NumberValue(n / 2)
		} else {
			parameters[dim.name] = entity.NumberValue(n)
		}
	}

	// 带单位的长度按回溯窗口归位，可覆盖上面句式匹配的结果
	params.ApplyMeasurements(lower, parameters)

	return modelType, parameters
}
