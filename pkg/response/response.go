package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 是统一的API返回结构体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// AbortWithFail 失败响应并终止后续处理器，用于中间件
func AbortWithFail(c *gin.Context, code int, message string) {
	Fail(c, code, message)
	c.Abort()
}
