package synthesis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model3d-ai-api/internal/domain/entity"
	apperrors "model3d-ai-api/pkg/errors"
)

type fakeCatalog struct {
	tmpl entity.Template
}

func (f *fakeCatalog) Find(ctx context.Context, query string) entity.Template {
	return f.tmpl
}

type fakeCompleter struct {
	output string
	err    error
}

func (f *fakeCompleter) CompleteCode(ctx context.Context, prompt string) (string, error) {
	return f.output, f.err
}

type fakeStore struct {
	saved    int
	err      error
	artifact *entity.ModelArtifact
}

func (f *fakeStore) Save(ctx context.Context, code, userID, name string, source entity.SynthesisSource) (*entity.ModelArtifact, error) {
	f.saved++
	return f.artifact, f.err
}

func TestGenerateFromTemplate(t *testing.T) {
	catalog := &fakeCatalog{tmpl: entity.Template{
		Code:   "radius = 10;\nsphere(r = radius);",
		Source: entity.TemplateSource{URL: "https://example.com/sphere"},
	}}
	gen := NewGenerator(catalog, &fakeCompleter{err: errors.New("must not be called")}, nil)

	result, err := gen.Generate(context.Background(), "sphere",
		map[string]entity.ParameterValue{"radius": entity.NumberValue(25)}, "")

	require.NoError(t, err)
	assert.Equal(t, entity.SynthesisSourceTemplate, result.Source)
	assert.Contains(t, result.Code, "radius = 25;")
	require.NotNil(t, result.Origin)
	assert.Equal(t, "https://example.com/sphere", result.Origin.URL)
}

func TestGenerateFromCompleter(t *testing.T) {
	completer := &fakeCompleter{output: "```openscad\nradius = 10;\nsphere(r = radius);\n```"}
	gen := NewGenerator(&fakeCatalog{}, completer, nil)

	result, err := gen.Generate(context.Background(), "sphere", nil, "")

	require.NoError(t, err)
	assert.Equal(t, entity.SynthesisSourceGenerated, result.Source)
	assert.Contains(t, result.Code, "sphere(r = radius);")
}

func TestGenerateFallsBackWhenCompleterUnavailable(t *testing.T) {
	completer := &fakeCompleter{err: apperrors.ErrCompletionUnavailable}
	gen := NewGenerator(&fakeCatalog{}, completer, nil)

	result, err := gen.Generate(context.Background(), "create a sphere",
		map[string]entity.ParameterValue{"radius": entity.NumberValue(7)}, "")

	require.NoError(t, err)
	assert.Equal(t, entity.SynthesisSourceFallback, result.Source)
	assert.Contains(t, result.Code, "radius = 7;")
	assert.Contains(t, result.Code, "sphere")
}

func TestGenerateFallbackNeverFails(t *testing.T) {
	gen := NewGenerator(nil, nil, nil)

	prompts := []string{"cube", "sphere", "cylinder", "cone", "something unrecognizable", ""}
	for _, prompt := range prompts {
		result, err := gen.Generate(context.Background(), prompt, nil, "")
		require.NoError(t, err)
		assert.Equal(t, entity.SynthesisSourceFallback, result.Source)
		assert.NotEmpty(t, result.Code)
	}
}

func TestGeneratePersistsArtifact(t *testing.T) {
	store := &fakeStore{artifact: &entity.ModelArtifact{Name: "sphere_model"}}
	gen := NewGenerator(nil, nil, store)

	result, err := gen.Generate(context.Background(), "sphere", nil, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 1, store.saved)
	require.NotNil(t, result.Artifact)
	assert.Equal(t, "sphere_model", result.Artifact.Name)
}

func TestGenerateAnonymousSkipsPersistence(t *testing.T) {
	store := &fakeStore{}
	gen := NewGenerator(nil, nil, store)

	_, err := gen.Generate(context.Background(), "sphere", nil, "")

	require.NoError(t, err)
	assert.Equal(t, 0, store.saved)
}

func TestGeneratePersistenceFailureDegrades(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	gen := NewGenerator(nil, nil, store)

	result, err := gen.Generate(context.Background(), "sphere", nil, "user-1")

	require.NoError(t, err)
	assert.Nil(t, result.Artifact)
	assert.NotEmpty(t, result.Code)
}

func TestApplyParameters(t *testing.T) {
	code := `width = 10;
height = 20;
width = 10;  // shadowed later on purpose
`
	out := ApplyParameters(code, map[string]entity.ParameterValue{
		"width":  entity.NumberValue(42),
		"height": entity.NumberValue(5.5),
	})

	// 只改写每个名字的第一处赋值
	assert.Contains(t, out, "width = 42;")
	assert.Contains(t, out, "height = 5.5;")
	assert.Contains(t, out, "width = 10;")
}

func TestApplyParametersMissingNameIgnored(t *testing.T) {
	code := "radius = 10;"
	out := ApplyParameters(code, map[string]entity.ParameterValue{
		"width": entity.NumberValue(42),
	})
	assert.Equal(t, code, out)
}

func TestExtractCodeFencedBlocks(t *testing.T) {
	text := "Here's your model:\n```openscad\ncube([1, 2, 3]);\n```\nEnjoy!\n```\nsphere(r = 5);\n```"

	code := ExtractCode(text)
	assert.Contains(t, code, "cube([1, 2, 3]);")
	assert.Contains(t, code, "sphere(r = 5);")
	assert.NotContains(t, code, "Enjoy!")
}

func TestExtractCodeNarrativeFiltering(t *testing.T) {
	text := `Here's an OpenSCAD model for you.
width = 10;
cube([width, width, width]);
This creates a simple cube.`

	code := ExtractCode(text)
	assert.Contains(t, code, "width = 10;")
	assert.Contains(t, code, "cube([width, width, width]);")
	assert.NotContains(t, code, "Here's an OpenSCAD model")
	assert.NotContains(t, code, "This creates a simple cube")
}

func TestExtractCodeEmptyInput(t *testing.T) {
	assert.Equal(t, "", ExtractCode(""))
}

func TestModelNameFromPrompt(t *testing.T) {
	name := modelNameFromPrompt("create a parametric gear holder")
	assert.Regexp(t, `^parametric_gear_holder_[0-9a-f]{6}$`, name)

	// 全是停用词时退回固定前缀
	name = modelNameFromPrompt("a the of")
	assert.Regexp(t, `^model_[0-9a-f]{6}$`, name)
}
