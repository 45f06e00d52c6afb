// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h RouterHandlers, authRequired gin.HandlerFunc) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 对话
	chat := v1.Group("/chat")
	{
		chat.POST("/messages", h.Chat.SendMessage)
	}

	// 模型管理
	models := v1.Group("/models", authRequired)
	{
		models.GET("", h.Model.List)
		models.GET("/:mid", h.Model.Get)
		models.DELETE("/:mid", h.Model.Delete)
		models.GET("/:mid/scad", h.Model.DownloadScad)
		models.GET("/:mid/preview", h.Model.Preview)
		models.GET("/:mid/stl", h.Model.ExportSTL)
	}

	// 代币账户
	tokens := v1.Group("/tokens", authRequired)
	{
		tokens.GET("/balance", h.Token.Balance)
		tokens.POST("/topup", h.Token.TopUp)
		tokens.GET("/transactions", h.Token.Transactions)
	}
}
