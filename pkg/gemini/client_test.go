package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContent(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  string
		wantText string
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"candidates":[{"content":{"parts":[{"text":"{\"pais\""},{"text":": {}}"}]},"finishReason":"STOP"}]}`,
			wantText: `{"pais": {}}`,
		},
		{
			name:    "quota_exceeded",
			status:  http.StatusTooManyRequests,
			body:    `{"error": {"code": 429}}`,
			wantErr: "unexpected status 429",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL), WithModel("gemini-test"))

			resp, err := client.GenerateContent(context.Background(), GenerateContentRequest{
				Contents: []Content{{Role: "user", Parts: []Part{{Text: "Hi"}}}},
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantText, resp.Text())
		})
	}
}

func TestGenerateContentResponse_Text_Empty(t *testing.T) {
	var resp GenerateContentResponse
	assert.Empty(t, resp.Text())
}
