package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorUsesStatusFromCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, apperrors.New(apperrors.ErrCodeCartEmpty, "Cart is empty"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(apperrors.ErrCodeCartEmpty), body["code"])
	assert.Equal(t, "Bad Request", body["message"])
	assert.Equal(t, "Cart is empty", body["detail"])
	assert.NotContains(t, body, "data")
}

func TestErrorHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, apperrors.Wrap(stderrors.New("dial tcp 10.0.0.1:3306"), "查询失败"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestErrorWithFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, apperrors.ErrInvalidParams.WithFields(map[string]string{"quantity": "must be greater than 0"}))

	body := decode(t, w)
	detail, ok := body["detail"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "must be greater than 0", detail["quantity"])
}

func TestCreatedAndDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Created(c, gin.H{"order_id": 1})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Detail(c, "Order cancelled and stock restored.")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order cancelled and stock restored.", decode(t, w)["detail"])
}

func TestNewPageData(t *testing.T) {
	p := NewPageData([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPageData(nil, 0, 1, 0)
	assert.Equal(t, 0, p.TotalPages)
}
