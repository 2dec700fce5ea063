package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"concierge/models"
	"concierge/services/svcerr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeChatService struct {
	turns   []models.Turn
	turnErr error
	conv    *models.Conversation
	convErr error
}

func (f *fakeChatService) HandleTurn(_ context.Context, _, _ string) ([]models.Turn, error) {
	return f.turns, f.turnErr
}

func (f *fakeChatService) AppendAssistantNote(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeChatService) GetConversation(_ context.Context, _ string) (*models.Conversation, error) {
	return f.conv, f.convErr
}

func (f *fakeChatService) ResetConversation(_ context.Context, _ string) error {
	return f.convErr
}

func chatRouter(svc *fakeChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(svc)
	r.POST("/api/chat", h.HandleChat)
	r.GET("/api/conversations/:userId", h.GetConversation)
	r.DELETE("/api/conversations/:userId", h.ResetConversation)
	return r
}

func TestHandleChatReturnsTurns(t *testing.T) {
	r := chatRouter(&fakeChatService{turns: []models.Turn{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi there"},
	}})

	w := postJSON(t, r, "/api/chat", `{"userId":"u-1","message":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "hi there")
}

func TestHandleChatUnauthenticated(t *testing.T) {
	r := chatRouter(&fakeChatService{
		turnErr: svcerr.New(svcerr.CodeUnauthenticated, "userId is required"),
	})

	w := postJSON(t, r, "/api/chat", `{"userId":"","message":"hello"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleChatProcessingFailureIsGeneric(t *testing.T) {
	r := chatRouter(&fakeChatService{
		turnErr: svcerr.New(svcerr.CodeChatFailed, "failed to process chat message"),
	})

	w := postJSON(t, r, "/api/chat", `{"userId":"u-1","message":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Internal Server Error")
}

func TestGetConversationNotFound(t *testing.T) {
	r := chatRouter(&fakeChatService{
		convErr: svcerr.New(svcerr.CodeNotFound, "conversation not found"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/u-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetConversation(t *testing.T) {
	r := chatRouter(&fakeChatService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/conversations/u-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "conversation reset")
}
