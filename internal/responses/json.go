package responses

import "github.com/gin-gonic/gin"

// APIResponse is the envelope every endpoint replies with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// Abort is Fail for middlewares: it also stops the handler chain.
func Abort(c *gin.Context, statusCode int, err error, message string) {
	Fail(c, statusCode, err, message)
	c.Abort()
}
