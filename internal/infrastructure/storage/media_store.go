// Package storage 提供模型文件存储与 OpenSCAD 渲染能力
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"model3d-ai-api/internal/config"
	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/internal/domain/repository"
	apperrors "model3d-ai-api/pkg/errors"
	"model3d-ai-api/pkg/logger"
)

// MediaStore 模型文件存储
// 每个用户一个子目录，.scad 源文件为主产物，预览图和 STL 按需渲染
type MediaStore struct {
	baseDir        string
	previewEnabled bool
	renderer       *Renderer
	artifacts      repository.ModelArtifactRepository
}

// NewMediaStore 创建模型文件存储
func NewMediaStore(cfg *config.StorageConfig, renderer *Renderer, artifacts repository.ModelArtifactRepository) (*MediaStore, error) {
	baseDir := cfg.ModelsDir
	if baseDir == "" {
		baseDir = "data/models"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to create models directory")
	}
	return &MediaStore{
		baseDir:        baseDir,
		previewEnabled: cfg.PreviewEnabled,
		renderer:       renderer,
		artifacts:      artifacts,
	}, nil
}

// Save 保存代码并生成预览与导出文件
// 渲染失败不阻断保存，元数据写库失败才返回错误
func (s *MediaStore) Save(ctx context.Context, code, userID, name string, source entity.SynthesisSource) (*entity.ModelArtifact, error) {
	log := logger.FromContext(ctx)

	userDir, err := s.securePath(userID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to create user directory")
	}

	scadPath, err := s.securePath(userID, name+".scad")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(scadPath, []byte(code), 0o644); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to write scad file")
	}

	artifact := &entity.ModelArtifact{
		UserID:    userID,
		Name:      name,
		Source:    source,
		ScadPath:  scadPath,
		SizeBytes: int64(len(code)),
	}

	if s.previewEnabled && s.renderer != nil && s.renderer.Available() {
		pngPath := strings.TrimSuffix(scadPath, ".scad") + ".png"
		if err := s.renderer.RenderPreview(ctx, scadPath, pngPath); err != nil {
			log.Warn("preview render skipped", "name", name, "error", err.Error())
		} else {
			artifact.PreviewPath = pngPath
		}
	}

	if s.artifacts != nil {
		if err := s.artifacts.Create(ctx, artifact); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to record model artifact")
		}
	}
	return artifact, nil
}

// ExportSTL 为已保存的模型导出 STL，返回更新后的记录
func (s *MediaStore) ExportSTL(ctx context.Context, artifact *entity.ModelArtifact) (*entity.ModelArtifact, error) {
	if artifact.StlPath != "" {
		if _, err := os.Stat(artifact.StlPath); err == nil {
			return artifact, nil
		}
	}
	if s.renderer == nil || !s.renderer.Available() {
		return nil, apperrors.New(apperrors.CodeRenderFailed, "openscad binary not found")
	}

	stlPath := strings.TrimSuffix(artifact.ScadPath, ".scad") + ".stl"
	if err := s.renderer.ExportSTL(ctx, artifact.ScadPath, stlPath); err != nil {
		return nil, err
	}

	artifact.StlPath = stlPath
	if s.artifacts != nil {
		if err := s.artifacts.Update(ctx, artifact); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update model artifact")
		}
	}
	return artifact, nil
}

// ReadScad 读取 .scad 源文件内容
func (s *MediaStore) ReadScad(ctx context.Context, artifact *entity.ModelArtifact) ([]byte, error) {
	data, err := os.ReadFile(artifact.ScadPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrFileNotFound.WithError(err)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to read scad file")
	}
	return data, nil
}

// securePath 在基目录内拼接路径，拒绝任何越出基目录的组件
func (s *MediaStore) securePath(parts ...string) (string, error) {
	for _, part := range parts {
		if part == "" || part == "." || part == ".." ||
			strings.ContainsAny(part, `/\`) || strings.Contains(part, "..") {
			return "", apperrors.New(apperrors.CodeInvalidParam, fmt.Sprintf("invalid path component: %q", part))
		}
	}

	joined := filepath.Join(append([]string{s.baseDir}, parts...)...)
	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeStorageError, "failed to resolve base directory")
	}
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeStorageError, "failed to resolve path")
	}
	if abs != base && !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return "", apperrors.New(apperrors.CodeInvalidParam, "path escapes storage directory")
	}
	return joined, nil
}
