package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model3d-ai-api/internal/config"
	"model3d-ai-api/internal/domain/entity"
	apperrors "model3d-ai-api/pkg/errors"
)

func newTestStore(t *testing.T) *MediaStore {
	t.Helper()
	store, err := NewMediaStore(&config.StorageConfig{ModelsDir: t.TempDir()}, nil, nil)
	require.NoError(t, err)
	return store
}

func TestMediaStoreSaveWritesScadFile(t *testing.T) {
	store := newTestStore(t)

	artifact, err := store.Save(context.Background(), "cube([1, 2, 3]);", "user-1", "test_cube", entity.SynthesisSourceFallback)
	require.NoError(t, err)

	assert.Equal(t, "user-1", artifact.UserID)
	assert.Equal(t, "test_cube", artifact.Name)
	assert.Equal(t, int64(len("cube([1, 2, 3]);")), artifact.SizeBytes)
	assert.FileExists(t, artifact.ScadPath)
	assert.Equal(t, "test_cube.scad", filepath.Base(artifact.ScadPath))
	// 渲染器未配置时没有预览图
	assert.Empty(t, artifact.PreviewPath)
}

func TestMediaStoreSaveRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	bad := []string{"../evil", "a/b", `a\b`, "..", ".", "", "x..y"}
	for _, userID := range bad {
		_, err := store.Save(context.Background(), "cube(1);", userID, "name", entity.SynthesisSourceFallback)
		require.Error(t, err, "userID %q must be rejected", userID)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
	}
}

func TestMediaStoreReadScad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	artifact, err := store.Save(ctx, "sphere(r = 5);", "user-1", "ball", entity.SynthesisSourceFallback)
	require.NoError(t, err)

	data, err := store.ReadScad(ctx, artifact)
	require.NoError(t, err)
	assert.Equal(t, "sphere(r = 5);", string(data))
}

func TestMediaStoreReadScadMissingFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ReadScad(context.Background(), &entity.ModelArtifact{
		ScadPath: filepath.Join(t.TempDir(), "missing.scad"),
	})
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

func TestMediaStoreExportSTLWithoutRenderer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	artifact, err := store.Save(ctx, "cube(1);", "user-1", "cube", entity.SynthesisSourceFallback)
	require.NoError(t, err)

	_, err = store.ExportSTL(ctx, artifact)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeRenderFailed, appErr.Code)
}

func TestRendererUnavailable(t *testing.T) {
	r := &Renderer{}

	assert.False(t, r.Available())
	err := r.RenderPreview(context.Background(), "in.scad", "out.png")
	require.Error(t, err)
}
