// Package params 从自然语言消息中提取参数值
package params

import (
	"regexp"
	"strconv"
	"strings"

	"model3d-ai-api/internal/domain/entity"
)

// 带单位的长度统一换算为毫米
var unitFactors = map[string]float64{
	"mm": 1,
	"cm": 10,
	"m":  1000,
	"in": 25.4,
}

// mm 必须排在 m 之前，否则 "10 mm" 会被当作米匹配
var measurementRe = regexp.MustCompile(`(\d+\.?\d*)\s*(mm|cm|m|in)\b`)

// lookbackWindow 单位数值回溯窗口，在数值前多少个字符内寻找维度关键词
const lookbackWindow = 20

// Measurement 一次带单位的长度匹配
type Measurement struct {
	Millimeters float64
	Start       int
}

// ScanMeasurements 扫描消息中所有带单位的长度，换算为毫米
func ScanMeasurements(message string) []Measurement {
	var out []Measurement
	for _, loc := range measurementRe.FindAllStringSubmatchIndex(message, -1) {
		numText := message[loc[2]:loc[3]]
		unit := message[loc[4]:loc[5]]
		n, err := strconv.ParseFloat(numText, 64)
		if err != nil {
			continue
		}
		out = append(out, Measurement{
			Millimeters: n * unitFactors[unit],
			Start:       loc[0],
		})
	}
	return out
}

// ApplyMeasurements 将带单位的长度按回溯窗口内出现的维度关键词归位
// 同一参数多次出现时后写覆盖先写
func ApplyMeasurements(message string, out map[string]entity.ParameterValue) {
	lower := strings.ToLower(message)
	for _, m := range ScanMeasurements(lower) {
		start := m.Start - lookbackWindow
		if start < 0 {
			start = 0
		}
		context := lower[start:m.Start]

		switch {
		case strings.Contains(context, "width") || strings.Contains(context, "wide"):
			out["width"] = entity.NumberValue(m.Millimeters)
		case strings.Contains(context, "height") || strings.Contains(context, "high") || strings.Contains(context, "tall"):
			out["height"] = entity.NumberValue(m.Millimeters)
		case strings.Contains(context, "depth") || strings.Contains(context, "deep"):
			out["depth"] = entity.NumberValue(m.Millimeters)
		case strings.Contains(context, "radius1") || strings.Contains(context, "base radius"):
			out["radius1"] = entity.NumberValue(m.Millimeters)
		case strings.Contains(context, "radius2") || strings.Contains(context, "top radius"):
			out["radius2"] = entity.NumberValue(m.Millimeters)
		case strings.Contains(context, "radius"):
			out["radius"] = entity.NumberValue(m.Millimeters)
		case strings.Contains(context, "diameter"):
			out["radius"] = entity.NumberValue(m.Millimeters / 2)
		}
	}
}
