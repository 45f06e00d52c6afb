package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model3d-ai-api/internal/domain/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"动作加物体", "create a cube for me", true},
		{"动作加物体变体", "please generate a sphere", true},
		{"3d 前缀动作", "I want a 3d model of a gear", true},
		{"只有动作没有物体", "create something nice", false},
		{"只有物体没有动作", "I like cubes and spheres", false},
		{"普通闲聊", "what's the weather like", false},
		{"大小写不敏感", "CREATE A BOX", true},
		{"子串匹配不校验词边界", "create a boxer portrait", true},
		{"空消息", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestParseRequestModelType(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"create a sphere", "sphere"},
		{"make me a ball", "sphere"},
		{"generate a cylinder", "cylinder"},
		{"build a tube", "cylinder"},
		{"create a cone", "cone"},
		{"make a pyramid", "pyramid"},
		{"design a gear", "gear"},
		{"create a box", "cube"},
		{"create a cube", "cube"},
		// 无法识别形状时默认 cube
		{"create a 3d object", "cube"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			modelType, _ := ParseRequest(tt.message)
			assert.Equal(t, tt.want, modelType)
		})
	}
}

func TestParseRequestInlineDimensions(t *testing.T) {
	_, parameters := ParseRequest("create a cube with width of 10 and height 25.5")

	require.Contains(t, parameters, "width")
	require.Contains(t, parameters, "height")
	assert.Equal(t, entity.NumberValue(10), parameters["width"])
	assert.Equal(t, entity.NumberValue(25.5), parameters["height"])
}

func TestParseRequestDiameterHalved(t *testing.T) {
	_, parameters := ParseRequest("create a sphere with diameter 30")

	require.Contains(t, parameters, "radius")
	assert.Equal(t, entity.NumberValue(15), parameters["radius"])
	assert.NotContains(t, parameters, "diameter")
}

func TestParseRequestDiameterOverridesRadius(t *testing.T) {
	// radius 与 diameter 同时出现时 diameter 在模式表中靠后，覆盖前者
	_, parameters := ParseRequest("create a sphere with radius 5 and diameter 30")

	assert.Equal(t, entity.NumberValue(15), parameters["radius"])
}

func TestParseRequestUnitMeasurements(t *testing.T) {
	// 句式匹配出 width=10 后被带单位的 10cm 覆盖为毫米值
	_, parameters := ParseRequest("create a box with width 10cm")

	require.Contains(t, parameters, "width")
	assert.Equal(t, entity.NumberValue(100), parameters["width"])
}
