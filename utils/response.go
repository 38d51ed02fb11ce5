package utils

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// Attachment sends body as a file download named filename.
func Attachment(ctx *gin.Context, filename, contentType string, body []byte) {
	ctx.Header("Content-Disposition", ContentDisposition(filename))
	ctx.Data(http.StatusOK, contentType, body)
}

// ContentDisposition builds an attachment header. Names outside printable ASCII get an
// underscored plain filename plus an RFC 5987 filename* carrying the UTF-8 name.
func ContentDisposition(filename string) string {
	plain := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	v := `attachment; filename="` + plain + `"`
	if plain != filename {
		v += "; filename*=UTF-8''" + strings.ReplaceAll(url.QueryEscape(filename), "+", "%20")
	}
	return v
}
