package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ymori/careertrack/internal/app/models/dto"
)

var validate = validator.New()

// SelfValidator is implemented by request payloads that carry their own rules
type SelfValidator interface {
	Validate() error
}

// BindAndValidate binds a request payload (JSON or form) into obj, runs tag
// validation, then the payload's own rules. A failed bind or validation writes
// the error response and reports false; the handler must return immediately.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("リクエストの形式が不正です"))
		return false
	}

	if err := validate.Struct(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("入力内容に誤りがあります"))
		return false
	}

	if v, ok := obj.(SelfValidator); ok {
		if err := v.Validate(); err != nil {
			HandleAPIError(c, err)
			return false
		}
	}

	return true
}

// BindQuery binds query parameters into obj with the same failure contract
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("リクエストの形式が不正です"))
		return false
	}
	return true
}
