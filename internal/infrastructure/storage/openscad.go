// Package storage 提供模型文件存储与 OpenSCAD 渲染能力
package storage

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"model3d-ai-api/internal/config"
	apperrors "model3d-ai-api/pkg/errors"
	"model3d-ai-api/pkg/logger"
	"model3d-ai-api/pkg/metrics"
)

// 常见安装路径，按顺序探测
var wellKnownBinaries = []string{
	"/usr/bin/openscad",
	"/usr/local/bin/openscad",
}

// 预览渲染的相机与外观参数
const (
	previewCamera      = "--camera=0,0,0,55,0,25,100"
	previewColorScheme = "--colorscheme=Tomorrow Night"
	previewImageSize   = "--imgsize=800,600"
)

// Renderer OpenSCAD 命令行渲染器
// 本机未安装 OpenSCAD 时 Available 返回 false，渲染调用直接失败
type Renderer struct {
	binary  string
	timeout time.Duration
}

// NewRenderer 创建渲染器，按配置和常见路径探测 openscad 可执行文件
func NewRenderer(cfg *config.StorageConfig) *Renderer {
	timeout := cfg.RenderTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Renderer{
		binary:  discoverBinary(cfg.OpenSCADBinary),
		timeout: timeout,
	}
}

// discoverBinary 定位 openscad 可执行文件，找不到返回空串
func discoverBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	for _, path := range wellKnownBinaries {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if path, err := exec.LookPath("openscad"); err == nil {
		return path
	}
	return ""
}

// Available 判断渲染器是否可用
func (r *Renderer) Available() bool {
	return r.binary != ""
}

// RenderPreview 渲染 PNG 预览图
func (r *Renderer) RenderPreview(ctx context.Context, scadPath, pngPath string) error {
	return r.run(ctx, "preview", pngPath, scadPath,
		previewCamera, previewColorScheme, previewImageSize)
}

// ExportSTL 导出 STL 文件
func (r *Renderer) ExportSTL(ctx context.Context, scadPath, stlPath string) error {
	return r.run(ctx, "stl", stlPath, scadPath)
}

// run 调用 openscad 命令行完成一次渲染
func (r *Renderer) run(ctx context.Context, kind, outPath, scadPath string, extraArgs ...string) error {
	if r.binary == "" {
		metrics.RenderTotal.WithLabelValues(kind, "unavailable").Inc()
		return apperrors.New(apperrors.CodeRenderFailed, "openscad binary not found")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append([]string{"-o", outPath}, extraArgs...)
	args = append(args, scadPath)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	output, err := cmd.CombinedOutput()

	metrics.RenderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RenderTotal.WithLabelValues(kind, "error").Inc()
		logger.Warn(ctx, "openscad render failed",
			"kind", kind, "output", string(output), "error", err.Error())
		return apperrors.Wrap(err, apperrors.CodeRenderFailed,
			fmt.Sprintf("openscad %s render failed", kind))
	}

	metrics.RenderTotal.WithLabelValues(kind, "success").Inc()
	return nil
}
