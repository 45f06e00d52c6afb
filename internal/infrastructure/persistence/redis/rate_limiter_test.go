package redis

import (
	"model3d-ai-api/internal/interfaces/http/middleware"
)

// 限流器必须满足中间件的限流接口
var _ middleware.RateLimiter = (*RateLimiter)(nil)
