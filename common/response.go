package common

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Code string

const (
	SUCCESS Code = "SUCCESS"
	FAIL    Code = "FAIL"
)

var BadRequestErr = fmt.Errorf("bad request")

func Response(ctx *gin.Context, status int, code Code, data interface{}) {
	if code == FAIL {
		var message interface{}
		if msg, ok := data.(string); ok {
			message = msg
			data = nil
		}
		ctx.JSON(status, gin.H{
			"Code":    code,
			"Message": message,
			"Data":    data,
		})
		return
	}
	ctx.JSON(status, gin.H{
		"Code":    code,
		"Message": nil,
		"Data":    data,
	})
}

func ResponseError(ctx *gin.Context, status int, err error) {
	Response(ctx, status, FAIL, err.Error())
}

func ResponseBadRequestError(ctx *gin.Context) {
	ResponseError(ctx, http.StatusBadRequest, BadRequestErr)
}

func ResponseSuccess(ctx *gin.Context, data interface{}) {
	Response(ctx, http.StatusOK, SUCCESS, data)
}
