package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model3d-ai-api/internal/domain/entity"
)

func TestExtractParametersAssignments(t *testing.T) {
	code := `// Customizable bracket
width = 20;
height = 35.5;
label = "left";
centered = true;
holes = [3, 6, 9];

cube([width, height, 5]);
`
	specs := ExtractParameters(code)
	require.Len(t, specs, 5)

	byName := make(map[string]entity.ParameterSpec)
	for _, spec := range specs {
		byName[spec.Name] = spec
	}

	assert.Equal(t, entity.ParameterKindNumber, byName["width"].Kind)
	assert.Equal(t, "20", byName["width"].Default)
	assert.Equal(t, entity.ParameterKindNumber, byName["height"].Kind)
	assert.Equal(t, entity.ParameterKindString, byName["label"].Kind)
	assert.Equal(t, entity.ParameterKindBoolean, byName["centered"].Kind)
	assert.Equal(t, entity.ParameterKindArray, byName["holes"].Kind)
}

func TestExtractParametersSkipsReservedNames(t *testing.T) {
	code := `size = 10;
i = 0;
tmp = 5;
cube(size);
`
	specs := ExtractParameters(code)
	require.Len(t, specs, 1)
	assert.Equal(t, "size", specs[0].Name)
}

func TestExtractParametersModuleSignature(t *testing.T) {
	code := `module bracket(width = 20, height, holes = [3, 6], resize = concat([1], [2])) {
    cube([width, height, 5]);
}`
	specs := ExtractParameters(code)
	require.Len(t, specs, 4)

	byName := make(map[string]entity.ParameterSpec)
	for _, spec := range specs {
		byName[spec.Name] = spec
	}

	assert.Equal(t, "20", byName["width"].Default)
	// 无默认值的签名参数类型未知
	assert.Equal(t, entity.ParameterKindUnknown, byName["height"].Kind)
	// 默认值里的逗号被嵌套深度保护，不会错切
	assert.Equal(t, "[3, 6]", byName["holes"].Default)
	assert.Equal(t, "concat([1], [2])", byName["resize"].Default)
}

func TestExtractParametersModuleOverridesAssignment(t *testing.T) {
	code := `width = 10;
module thing(width = 99) {
    cube(width);
}`
	specs := ExtractParameters(code)
	require.Len(t, specs, 1)
	assert.Equal(t, "99", specs[0].Default)
}

func TestExtractParametersPreservesOrder(t *testing.T) {
	code := `width = 10;
height = 20;
depth = 30;
`
	specs := ExtractParameters(code)
	require.Len(t, specs, 3)
	assert.Equal(t, "width", specs[0].Name)
	assert.Equal(t, "height", specs[1].Name)
	assert.Equal(t, "depth", specs[2].Name)
}

func TestIsCADCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"module 签名", "module gear(teeth = 12) { }", true},
		{"两个关键词", "union() { cube([1,2,3]); }", true},
		{"单关键词句式", "sphere(r = 10);", true},
		{"普通散文", "This page explains how gears work.", false},
		{"空文本", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isCADCode(tt.text))
		})
	}
}

func TestCodeMatchesQuery(t *testing.T) {
	code := "module gear(teeth = 12) { cylinder(h = 5, r = 10); }"

	assert.True(t, codeMatchesQuery(code, "gear"))
	assert.True(t, codeMatchesQuery(code, "spur gear"))
	assert.False(t, codeMatchesQuery(code, "castle tower bridge"))
	assert.False(t, codeMatchesQuery(code, ""))
}
