package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCompleteSuccess 测试一轮对话请求的构造和响应解析
func TestCompleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ChatRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "gpt-4", req.Model)
		assert.Equal(t, 0.3, req.Temperature)
		assert.Equal(t, 2, len(req.Messages))
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "translate this", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "0. hola", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "0. hello"}}]
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test")
	client.BaseURL = server.URL

	content, err := client.Complete(context.Background(), "translate this", "0. hola", 0.3)

	assert.NoError(t, err)
	assert.Equal(t, "0. hello", content)
}

// TestCompleteAPIError 测试非200状态码返回错误
func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test")
	client.BaseURL = server.URL

	_, err := client.Complete(context.Background(), "sys", "user", 0.3)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

// TestCompleteEmptyChoices 测试响应中没有生成内容时返回错误
func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-2", "choices": []}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test")
	client.BaseURL = server.URL

	_, err := client.Complete(context.Background(), "sys", "user", 0.3)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "没有生成内容")
}
