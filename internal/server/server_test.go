package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/assistant"
	"github.com/hanneskern95-jpg/AI-assistant/internal/session"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/config"
)

type scriptedChat struct {
	response *adapter.ChatResponse
}

func (s *scriptedChat) Chat(ctx context.Context, req adapter.ChatRequest) (*adapter.ChatResponse, error) {
	if s.response != nil {
		return s.response, nil
	}
	return &adapter.ChatResponse{Finish: adapter.FinishText, Content: "hello"}, nil
}

func (s *scriptedChat) Complete(ctx context.Context, req adapter.CompletionRequest) (string, error) {
	return "", nil
}

type echoTool struct {
	tool.Base
}

func (echoTool) Descriptor() tool.Descriptor {
	return tool.Descriptor{Name: "echo_tool", Description: "x", Parameters: map[string]any{"type": "object"}}
}

func (echoTool) Execute(ctx context.Context, args map[string]any) *tool.Result {
	return &tool.Result{Summary: "echoed", Data: map[string]any{"summary": "echoed"}}
}

func newTestServer(chat adapter.ChatClient) (*Server, *session.Session) {
	gin.SetMode(gin.TestMode)

	loader := tool.NewLoader(map[string]tool.Tool{"echo_tool": echoTool{}})
	master := assistant.New(assistant.Config{
		Name:   "master",
		Model:  "test-model",
		Groups: []string{"general"},
		Loader: loader,
		Chat:   chat,
	})

	sess := session.New()
	sess.SetLoader(loader)
	sess.BindMaster(master)

	cfg := &config.Config{Port: "0", Env: "test"}
	return New(cfg, sess), sess
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(&scriptedChat{})
	router := srv.Router()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ok", response["status"])
}

func TestChatEndpoint_InvalidRequest(t *testing.T) {
	srv, _ := newTestServer(&scriptedChat{})
	router := srv.Router()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBuffer([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpoint_PlainText(t *testing.T) {
	srv, _ := newTestServer(&scriptedChat{response: &adapter.ChatResponse{
		Finish: adapter.FinishText, Content: "the answer",
	}})
	router := srv.Router()

	body, _ := json.Marshal(map[string]string{"message": "a question"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "the answer", response["content"])
	assert.Equal(t, "master", response["assistant"])
}

func TestChatEndpoint_ToolCall(t *testing.T) {
	srv, _ := newTestServer(&scriptedChat{response: &adapter.ChatResponse{
		Finish:    adapter.FinishToolCall,
		ToolCalls: []adapter.ToolCall{{ID: "c1", Name: "echo_tool", Arguments: `{}`}},
	}})
	router := srv.Router()

	body, _ := json.Marshal(map[string]string{"message": "use the tool"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "echo_tool", response["tool_name"])
	assert.Equal(t, "echoed", response["rendered"])
}

func TestHistoryEndpoint(t *testing.T) {
	srv, _ := newTestServer(&scriptedChat{})
	router := srv.Router()

	body, _ := json.Marshal(map[string]string{"message": "hi"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/history", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Assistant string                   `json:"assistant"`
		Turns     []map[string]interface{} `json:"turns"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "master", response.Assistant)
	assert.Len(t, response.Turns, 2)
}

func TestAssistantEndpoint(t *testing.T) {
	srv, _ := newTestServer(&scriptedChat{})
	router := srv.Router()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/assistant", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "master", response["active"])
	assert.Equal(t, "master", response["master"])
}

func TestPinEndpoints(t *testing.T) {
	srv, sess := newTestServer(&scriptedChat{response: &adapter.ChatResponse{
		Finish:    adapter.FinishToolCall,
		ToolCalls: []adapter.ToolCall{{ID: "c1", Name: "echo_tool", Arguments: `{}`}},
	}})
	router := srv.Router()

	// Nothing pinnable yet.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/pin", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Produce a tool result, then pin it.
	body, _ := json.Marshal(map[string]string{"message": "use the tool"})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/pin", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, sess.Pin())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/pin", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	var pinned map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &pinned)
	assert.Equal(t, "echo_tool", pinned["tool_name"])
	assert.Equal(t, "echoed", pinned["rendered"])

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/pin", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, sess.Pin())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/pin", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
