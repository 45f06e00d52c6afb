// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"model3d-ai-api/internal/application/dialog"
	"model3d-ai-api/internal/domain/entity"
)

// ChatMessageRequest 对话消息请求
type ChatMessageRequest struct {
	Message string `json:"message" binding:"required,max=4096"`
}

// ChatMessageResponse 对话消息响应
// Code 仅在一次生成完成时出现，Parameters 为实际写入代码的参数
type ChatMessageResponse struct {
	SessionID  string            `json:"session_id"`
	Text       string            `json:"text"`
	Code       string            `json:"code,omitempty"`
	Source     string            `json:"source,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Model      *ModelArtifactDTO `json:"model,omitempty"`
}

// ToChatMessageResponse 将对话应答转换为 DTO
func ToChatMessageResponse(sessionID string, reply *dialog.Reply) *ChatMessageResponse {
	resp := &ChatMessageResponse{
		SessionID: sessionID,
		Text:      reply.Text,
		Code:      reply.Code,
		Source:    string(reply.Source),
		Model:     ToModelArtifactDTO(reply.Artifact),
	}
	if len(reply.Parameters) > 0 {
		resp.Parameters = make(map[string]string, len(reply.Parameters))
		for name, value := range reply.Parameters {
			resp.Parameters[name] = value.Literal()
		}
	}
	return resp
}

// ModelArtifactDTO 模型文件元数据
type ModelArtifactDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Source     string `json:"source"`
	HasPreview bool   `json:"has_preview"`
	HasStl     bool   `json:"has_stl"`
	SizeBytes  int64  `json:"size_bytes"`
	CreatedAt  string `json:"created_at"`
}

// ToModelArtifactDTO 将模型实体转换为 DTO
func ToModelArtifactDTO(a *entity.ModelArtifact) *ModelArtifactDTO {
	if a == nil {
		return nil
	}
	return &ModelArtifactDTO{
		ID:         a.ID,
		Name:       a.Name,
		Source:     string(a.Source),
		HasPreview: a.PreviewPath != "",
		HasStl:     a.StlPath != "",
		SizeBytes:  a.SizeBytes,
		CreatedAt:  a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ModelListResponse 模型列表响应
type ModelListResponse struct {
	Models []*ModelArtifactDTO `json:"models"`
}

// ToModelListResponse 将模型实体列表转换为 DTO
func ToModelListResponse(items []*entity.ModelArtifact) *ModelListResponse {
	models := make([]*ModelArtifactDTO, 0, len(items))
	for _, item := range items {
		models = append(models, ToModelArtifactDTO(item))
	}
	return &ModelListResponse{Models: models}
}
