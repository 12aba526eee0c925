package ping

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping 健康检查，仅允许本机访问
func Ping() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !isLocalIP(ctx.Request.RemoteAddr) {
			ctx.String(http.StatusForbidden, "forbidden")
			return
		}
		ctx.String(http.StatusOK, "\r\nSuccess")
	}
}

// 检测请求的ip是否是本地ip
func isLocalIP(host string) bool {
	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return false
	}
	allowIps := []string{"localhost", "127.0.0.1", "::1"}
	for _, item := range allowIps {
		if ip == item {
			return true
		}
	}
	return false
}
