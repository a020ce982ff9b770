package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

type ValidationHTTPError struct {
	Code       string       `json:"error_code"`
	Message    string       `json:"message"`
	Fields     []FieldError `json:"fields"`
	FirstField string       `json:"first_field"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func TooManyRequests(c *gin.Context, code, message string) {
	Write(c, http.StatusTooManyRequests, code, message)
}

func Validation(c *gin.Context, ve *ValidationError) {
	c.JSON(http.StatusBadRequest, ValidationHTTPError{
		Code:       "validation_failed",
		Message:    "Por favor, preencha todos os campos obrigatórios corretamente.",
		Fields:     ve.Fields,
		FirstField: ve.FirstField(),
	})
}
