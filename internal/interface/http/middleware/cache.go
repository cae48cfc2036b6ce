package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheControl 公开GET接口的Cache-Control头
// 只对成功的匿名请求生效,带Token的请求和错误响应不允许缓存
func CacheControl(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxAge <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		c.Writer = &cacheControlWriter{
			ResponseWriter: c.Writer,
			value:          fmt.Sprintf("public, max-age=%d", maxAge),
			anonymous:      c.GetHeader("Authorization") == "",
		}
		c.Next()
	}
}

// cacheControlWriter 在写入状态码时决定Cache-Control(响应头必须在写body之前设置)
type cacheControlWriter struct {
	gin.ResponseWriter
	value     string
	anonymous bool
}

func (w *cacheControlWriter) WriteHeader(code int) {
	if code == http.StatusOK && w.anonymous {
		w.Header().Set("Cache-Control", w.value)
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.ResponseWriter.WriteHeader(code)
}
