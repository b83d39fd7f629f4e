package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amountRequest struct {
	Amount string `json:"amount"`
}

// amountScreen отвечает экраном с принятым количеством, как обработчик добавления позиции.
func amountScreen(calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		var req amountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"amount": req.Amount, "state": "order_active"})
	}
}

func gzipped(t *testing.T, s string) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return &buf
}

func TestGzipMiddleware(t *testing.T) {
	type want struct {
		statusCode      int
		contentEncoding string
		bodyContains    string
		handlerCalled   bool
	}

	tests := []struct {
		name           string
		body           string
		gzipBody       bool
		acceptEncoding string
		want           want
	}{
		{
			name:           "gzipped amount, gzipped screen",
			body:           `{"amount":"2"}`,
			gzipBody:       true,
			acceptEncoding: "gzip",
			want: want{
				statusCode:      http.StatusOK,
				contentEncoding: "gzip",
				bodyContains:    `"amount":"2"`,
				handlerCalled:   true,
			},
		},
		{
			name:           "plain amount, gzipped screen",
			body:           `{"amount":"3"}`,
			acceptEncoding: "gzip",
			want: want{
				statusCode:      http.StatusOK,
				contentEncoding: "gzip",
				bodyContains:    `"amount":"3"`,
				handlerCalled:   true,
			},
		},
		{
			name:     "gzipped amount, plain screen",
			body:     `{"amount":"1"}`,
			gzipBody: true,
			want: want{
				statusCode:    http.StatusOK,
				bodyContains:  `"state":"order_active"`,
				handlerCalled: true,
			},
		},
		{
			name:           "invalid gzip body",
			body:           `{"amount":"2"}`,
			acceptEncoding: "gzip",
			want: want{
				statusCode:   http.StatusBadRequest,
				bodyContains: "invalid gzip body",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(tt.body)
			if tt.gzipBody {
				body = gzipped(t, tt.body)
			}

			req := httptest.NewRequest(http.MethodPost, "/order/items", body)
			req.Header.Set("Content-Type", "application/json")
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			if tt.gzipBody || tt.want.statusCode == http.StatusBadRequest {
				req.Header.Set("Content-Encoding", "gzip")
			}

			calls := 0
			w := httptest.NewRecorder()
			GzipMiddleware(amountScreen(&calls)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, tt.want.statusCode, res.StatusCode)
			assert.Equal(t, tt.want.contentEncoding, res.Header.Get("Content-Encoding"))
			assert.Equal(t, tt.want.handlerCalled, calls == 1)

			var reader io.Reader = res.Body
			if res.Header.Get("Content-Encoding") == "gzip" {
				gr, err := gzip.NewReader(res.Body)
				require.NoError(t, err)
				defer gr.Close()
				reader = gr
			}
			got, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Contains(t, string(got), tt.want.bodyContains)
		})
	}
}
