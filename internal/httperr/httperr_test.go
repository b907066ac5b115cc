package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRespondMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{Validation("empty_items", "x"), http.StatusBadRequest, "empty_items"},
		{NotFound("reservation_not_found", "x"), http.StatusNotFound, "reservation_not_found"},
		{Conflict("already_completed", "x"), http.StatusConflict, "already_completed"},
		{Unauthorized("invalid_token", "x"), http.StatusUnauthorized, "invalid_token"},
		{Forbidden("forbidden", "x"), http.StatusForbidden, "forbidden"},
		{Unavailable("storage_disabled", "x"), http.StatusServiceUnavailable, "storage_disabled"},
		{fmt.Errorf("wrapped: %w", Conflict("insufficient_stock", "x")), http.StatusConflict, "insufficient_stock"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Respond(c, tc.err)

		var body HTTPError
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if w.Code != tc.status || body.Code != tc.code {
			t.Fatalf("%v: got %d %s, want %d %s", tc.err, w.Code, body.Code, tc.status, tc.code)
		}
	}
}

func TestInternalHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/sales", nil)

	Respond(c, Internal("sale_record_failed", "failed to record sale", errors.New("pq: deadlock detected")))

	var body HTTPError
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Message != "failed to record sale" {
		t.Fatalf("message leaked: %q", body.Message)
	}
}

func TestSentinelMatching(t *testing.T) {
	sentinel := Conflict("already_completed", "reservation is already completed")
	err := fmt.Errorf("complete: %w", sentinel)

	if !errors.Is(err, Conflict("already_completed", "other text")) {
		t.Fatal("errors.Is should match on kind and code")
	}
	if KindOf(err) != KindConflict || KindOf(errors.New("x")) != KindInternal {
		t.Fatal("KindOf mismatch")
	}
}
