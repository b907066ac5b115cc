package httperr

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// Respond writes err with the status of its Kind. Errors that are not
// *Error become a generic 500; internal causes are logged, never returned.
func Respond(c *gin.Context, err error) {
	e, ok := As(err)
	if !ok {
		e = Internal("internal_error", "internal server error", err)
	}

	if e.Kind == KindInternal {
		log.Error().
			Err(err).
			Str("error_code", e.Code).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("requestID")).
			Msg("request failed")
	}

	_ = c.Error(err)
	Write(c, e.Kind.Status(), e.Code, e.Message)
}

// Abort is Respond for middleware: it stops the handler chain.
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}

func BadRequest(c *gin.Context, code, message string) {
	Respond(c, Validation(code, message))
}
