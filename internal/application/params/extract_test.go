package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model3d-ai-api/internal/domain/entity"
)

func numberSpec(name, def string) entity.ParameterSpec {
	return entity.ParameterSpec{Name: name, Default: def, Kind: entity.ParameterKindNumber}
}

func TestExtractAssignmentPhrases(t *testing.T) {
	needed := []entity.ParameterSpec{
		numberSpec("width", "10"),
		numberSpec("height", "10"),
		numberSpec("depth", "10"),
	}

	tests := []struct {
		name    string
		message string
		want    map[string]entity.ParameterValue
	}{
		{
			"is 句式",
			"width is 15",
			map[string]entity.ParameterValue{"width": entity.NumberValue(15)},
		},
		{
			"should be 句式",
			"the height should be 30",
			map[string]entity.ParameterValue{"height": entity.NumberValue(30)},
		},
		{
			"set to 句式",
			"set the depth to 7.5",
			map[string]entity.ParameterValue{"depth": entity.NumberValue(7.5)},
		},
		{
			"冒号句式",
			"width: 12, height: 8",
			map[string]entity.ParameterValue{
				"width":  entity.NumberValue(12),
				"height": entity.NumberValue(8),
			},
		},
		{
			"无匹配",
			"I'm not sure yet",
			map[string]entity.ParameterValue{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.message, needed))
		})
	}
}

func TestExtractUseDefaults(t *testing.T) {
	needed := []entity.ParameterSpec{
		numberSpec("radius", "5"),
		numberSpec("height", "20"),
		{Name: "label", Default: "hex", Kind: entity.ParameterKindString},
		{Name: "center", Default: "true", Kind: entity.ParameterKindBoolean},
		// 无默认值的参数在快捷路径下保持缺失
		{Name: "segments", Kind: entity.ParameterKindNumber},
	}

	collected := Extract("just use defaults please", needed)

	assert.Equal(t, entity.NumberValue(5), collected["radius"])
	assert.Equal(t, entity.NumberValue(20), collected["height"])
	assert.Equal(t, entity.TextValue("hex"), collected["label"])
	assert.Equal(t, entity.BooleanValue(true), collected["center"])
	assert.NotContains(t, collected, "segments")
}

func TestExtractUseDefaultsSkipsBadNumber(t *testing.T) {
	needed := []entity.ParameterSpec{
		{Name: "radius", Default: "not-a-number", Kind: entity.ParameterKindNumber},
	}

	collected := Extract("use defaults", needed)
	assert.Empty(t, collected)
}

func TestExtractDeterministic(t *testing.T) {
	needed := []entity.ParameterSpec{numberSpec("width", "10")}
	message := "width is 42"

	first := Extract(message, needed)
	second := Extract(message, needed)
	assert.Equal(t, first, second)
}

func TestScanMeasurements(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []float64
	}{
		{"毫米", "10mm", []float64{10}},
		{"厘米", "10cm", []float64{100}},
		{"米", "2m", []float64{2000}},
		{"英寸", "2in", []float64{50.8}},
		{"带空格", "10 cm", []float64{100}},
		{"小数", "2.5cm", []float64{25}},
		{"多个长度", "10cm wide and 5mm thick", []float64{100, 5}},
		{"无单位不匹配", "width 10", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanMeasurements(tt.message)
			require.Len(t, got, len(tt.want))
			for i, mm := range tt.want {
				assert.InDelta(t, mm, got[i].Millimeters, 1e-9)
			}
		})
	}
}

func TestApplyMeasurementsLookback(t *testing.T) {
	out := make(map[string]entity.ParameterValue)
	ApplyMeasurements("make the width 10cm and the height 5cm", out)

	assert.Equal(t, entity.NumberValue(100), out["width"])
	assert.Equal(t, entity.NumberValue(50), out["height"])
}

func TestApplyMeasurementsKeywordOutsideWindow(t *testing.T) {
	// width 距数值超过 20 个字符，不在回溯窗口内
	out := make(map[string]entity.ParameterValue)
	ApplyMeasurements("width should be somewhere around maybe 10cm", out)

	assert.NotContains(t, out, "width")
}

func TestApplyMeasurementsConeRadii(t *testing.T) {
	out := make(map[string]entity.ParameterValue)
	ApplyMeasurements("base radius 10mm and top radius 4mm", out)

	assert.Equal(t, entity.NumberValue(10), out["radius1"])
	assert.Equal(t, entity.NumberValue(4), out["radius2"])
}

func TestApplyMeasurementsDiameterHalved(t *testing.T) {
	out := make(map[string]entity.ParameterValue)
	ApplyMeasurements("diameter 3cm", out)

	assert.Equal(t, entity.NumberValue(15), out["radius"])
}

func TestApplyMeasurementsLastWriteWins(t *testing.T) {
	out := make(map[string]entity.ParameterValue)
	ApplyMeasurements("width 10mm no wait width 20mm", out)

	assert.Equal(t, entity.NumberValue(20), out["width"])
}
