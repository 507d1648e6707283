package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorResponse(t *testing.T, err error) (int, APIResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/", func(c *gin.Context) { Error(c, err) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w.Code, body
}

func TestErrorUsesAppErrorCode(t *testing.T) {
	code, body := errorResponse(t, apperror.NewConflictError("An item with this name already exists"))
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if body.Success || body.Message != "An item with this name already exists" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Meta == nil || body.Meta.RequestID == "" {
		t.Fatalf("expected meta with request id, got %+v", body.Meta)
	}
}

func TestErrorHidesUnexpectedErrors(t *testing.T) {
	code, body := errorResponse(t, errors.New(`pq: relation "items" does not exist`))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Message != "Internal server error" {
		t.Fatalf("expected generic message, got %q", body.Message)
	}
}
