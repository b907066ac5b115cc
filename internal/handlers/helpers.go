package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
	"github.com/BruksfildServices01/barber-pos/internal/validators"
)

// --------------------------------------------------
// Path and query params
// --------------------------------------------------

func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, httperr.Validation("invalid_query", name+" must be a positive integer")
	}
	return uint(id), nil
}

// dateRange reads startDate/endDate as an inclusive pair of calendar days
// in loc and returns the half-open instant range. With required false both
// may be absent, and ok reports whether a range was given.
func dateRange(c *gin.Context, loc *time.Location, required bool) (from, to time.Time, ok bool, err error) {
	start := strings.TrimSpace(c.Query("startDate"))
	end := strings.TrimSpace(c.Query("endDate"))

	if start == "" && end == "" && !required {
		return time.Time{}, time.Time{}, false, nil
	}
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, false, httperr.Validation("missing_date_range", "startDate and endDate are required")
	}

	from, to, err = timezone.DayRange(start, end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false, httperr.Validation("invalid_date", "dates must use YYYY-MM-DD")
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, false, httperr.Validation("invalid_date_range", "endDate must not be before startDate")
	}
	return from, to, true, nil
}

// --------------------------------------------------
// Body binding
// --------------------------------------------------

// bindJSON binds the body and answers 400 with a message naming the
// offending field.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.Respond(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return httperr.Validation("invalid_field_type", fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String())))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return httperr.Validation("invalid_json", "request body is not valid JSON")
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return httperr.Validation("invalid_request", validators.Message(verrs))
	}

	if errors.Is(err, io.EOF) {
		return httperr.Validation("invalid_request", "request body is required")
	}

	return httperr.Validation("invalid_request", err.Error())
}

func jsonKind(goKind string) string {
	switch {
	case strings.HasPrefix(goKind, "int"), strings.HasPrefix(goKind, "uint"), strings.HasPrefix(goKind, "float"):
		return "number"
	case goKind == "string":
		return "string"
	case goKind == "bool":
		return "boolean"
	case goKind == "slice", goKind == "array":
		return "array"
	case goKind == "struct", goKind == "map":
		return "object"
	}
	return goKind
}
