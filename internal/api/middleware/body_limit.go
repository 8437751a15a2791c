package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notify-center/pkg/response"
)

// BodyLimit 请求体大小限制中间件，仅作用于携带 JSON 请求体的 POST / PATCH
// 声明的 Content-Length 超限时直接返回 413；
// 未声明长度的请求在读取超限时由 JSON 解析返回 *http.MaxBytesError，再由 handler 转为 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPatch:
		default:
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
