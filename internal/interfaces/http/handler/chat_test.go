package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	chatapp "github.com/spendlens/backend/internal/application/chat"
	"github.com/spendlens/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockQuestionAsker is a mock implementation of QuestionAsker
type MockQuestionAsker struct {
	mock.Mock
}

func (m *MockQuestionAsker) Ask(ctx context.Context, question string) (json.RawMessage, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// stubClient is a chatapp.Client that must not be reached
type stubClient struct {
	called bool
}

func (s *stubClient) Ask(context.Context, string) (json.RawMessage, error) {
	s.called = true
	return json.RawMessage(`{}`), nil
}

func newChatRouter(asker QuestionAsker) *gin.Engine {
	r := gin.New()
	r.POST("/api/chat", NewChatHandler(asker).Ask)
	return r
}

func postChat(r http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandler_Ask_RelaysUpstreamBody(t *testing.T) {
	upstream := json.RawMessage(`{"sql":"SELECT 1","results":[{"?column?":1}],"answer":"One."}`)
	asker := new(MockQuestionAsker)
	asker.On("Ask", mock.Anything, "How much did we spend?").Return(upstream, nil)

	w := postChat(newChatRouter(asker), `{"question":"How much did we spend?"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(upstream), w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	asker.AssertExpectations(t)
}

func TestChatHandler_Ask_QuestionRequired(t *testing.T) {
	client := &stubClient{}
	r := newChatRouter(chatapp.NewService(client, zap.NewNop()))

	bodies := map[string]string{
		"empty body":     ``,
		"empty object":   `{}`,
		"empty question": `{"question":""}`,
		"whitespace":     `{"question":"   \n\t"}`,
		"non-string":     `{"question":42}`,
		"malformed json": `{"question":`,
		"null body":      `null`,
		"array body":     `["question"]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := postChat(r, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Question is required"}`, w.Body.String())
		})
	}
	assert.False(t, client.called)
}

func TestChatHandler_Ask_UpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "json details from upstream",
			err:  &chatapp.UpstreamError{StatusCode: 422, Details: map[string]any{"detail": "cannot answer"}},
			want: `{"error":"Failed to process question","details":{"detail":"cannot answer"}}`,
		},
		{
			name: "raw text details",
			err:  &chatapp.UpstreamError{StatusCode: 502, Details: "Bad Gateway"},
			want: `{"error":"Failed to process question","details":"Bad Gateway"}`,
		},
		{
			name: "other errors fall back to the message",
			err:  errors.New("dial tcp: connection refused"),
			want: `{"error":"Failed to process question","details":"dial tcp: connection refused"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := new(MockQuestionAsker)
			asker.On("Ask", mock.Anything, "q").Return(nil, tt.err)

			w := postChat(newChatRouter(asker), `{"question":"q"}`)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestChatHandler_Ask_StreamedBodyOverLimit(t *testing.T) {
	client := &stubClient{}
	r := gin.New()
	r.POST("/api/chat", middleware.BodyLimit(64), NewChatHandler(chatapp.NewService(client, zap.NewNop())).Ask)

	body := `{"question":"` + strings.Repeat("x", 200) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"Request body too large"}`, w.Body.String())
	assert.False(t, client.called)
}
