package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/errors"
)

const (
	defaultSuccessMessage = "success"
	successCode           = http.StatusOK

	defaultErrorMessage = "service temporarily unavailable"
	defaultErrorCode    = http.StatusServiceUnavailable
)

// Response 统一响应结构, HTTP 状态码固定 200, 业务码放在 code 中
type Response struct {
	Code    int    `json:"code"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func NewResponse(code int, data any, message string) *Response {
	return &Response{
		Code:    code,
		Data:    data,
		Message: message,
	}
}

// GinJSON 写入成功响应
func GinJSON(c *gin.Context, data any) {
	if c == nil {
		return
	}
	c.JSON(http.StatusOK, NewResponse(successCode, data, defaultSuccessMessage))
}

// GinJSONE 写入错误响应并中止后续 handler. 错误的 metadata 作为 data 返回
func GinJSONE(c *gin.Context, err error) {
	if c == nil {
		return
	}
	defer c.Abort()

	if err == nil {
		c.JSON(http.StatusOK, NewResponse(defaultErrorCode, nil, defaultErrorMessage))
		return
	}

	e := errors.FromError(err)
	var data any
	if md := e.GetMetadata(); md != nil {
		data = md
	}
	_ = c.Error(err)
	c.JSON(http.StatusOK, NewResponse(e.Code, data, e.Message))
}
