// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// newDevRouter は X-Owner-ID で所有者を決める開発用ミドルウェア付きのルーターを返します
func newDevRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.DevOwnerContextMiddleware)
	return r
}

// createRequest はボディをJSONにしてリクエストを作ります。ownerID が0ならヘッダーを付けない
func createRequest(t *testing.T, method, path string, body interface{}, ownerID uint) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err, "Failed to marshal request body")
			reader = bytes.NewBuffer(b)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ownerID != 0 {
		req.Header.Set("X-Owner-ID", strconv.FormatUint(uint64(ownerID), 10))
	}
	return req
}

// sendRequest は httptest.Server にリクエストを送り、ステータスとボディを返します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectedCode int) []byte {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		reqBodyBytes, err := json.Marshal(details.Body)
		require.NoError(t, err, "Failed to marshal request body")
		reqBodyReader = bytes.NewBuffer(reqBodyBytes)
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")
	if details.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch: %s", string(respBodyBytes))
	return respBodyBytes
}

// decodeError はエラーレスポンスのボディを取り出します
func decodeError(t *testing.T, body []byte) model.ErrorDetail {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp), "error body must be JSON: %s", string(body))
	assert.NotEmpty(t, errResp.Error.Code)
	assert.NotEmpty(t, errResp.Error.Message)
	return errResp.Error
}
