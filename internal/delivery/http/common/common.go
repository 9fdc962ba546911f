package http_common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const UserTokenHeader = "X-user-token"

type ErrorResponse struct {
	Message string `json:"message"`
}

// UserToken reads the caller identity and answers 401 when it is missing.
func UserToken(ctx *gin.Context) (string, bool) {
	token := ctx.GetHeader(UserTokenHeader)
	if token == "" {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: UserTokenHeader + " header required",
		})
		return "", false
	}
	return token, true
}
