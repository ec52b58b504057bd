package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/dto"
)

func newChatSessionMock(env *testEnv) *MockChatSession {
	chat := new(MockChatSession)
	env.sessions.On("Session", *env.member, testToken).Return(chat)
	return chat
}

func stubChatState(chat *MockChatSession, state domain.SessionState, msgs []domain.Message) {
	chat.On("Messages").Return(msgs)
	chat.On("LastError").Return(nil)
	chat.On("State").Return(state)
	chat.On("InFlight").Return(false)
}

func TestChatHandler_GetState(t *testing.T) {
	env := newTestEnv(t)
	chat := newChatSessionMock(env)
	stubChatState(chat, domain.StateIdle, []domain.Message{
		{ID: "m1", Role: domain.RoleUser, Content: "oi", DeliveryState: domain.DeliveryDelivered},
	})

	w := env.serve(env.request(http.MethodGet, "/api/v1/chat", "", true))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ChatStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "idle", resp.State)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "oi", resp.Messages[0].Content)
}

func TestChatHandler_SendMessageStreamsEvents(t *testing.T) {
	env := newTestEnv(t)
	chat := newChatSessionMock(env)
	stubChatState(chat, domain.StateIdle, nil)

	chat.On("SendMessage", mock.Anything, "gastei 50 no mercado", (*string)(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			observer := args.Get(3).(portssvc.MessageObserver)
			observer(domain.Message{ID: "a1", Role: domain.RoleAgent, Content: "Registrado", DeliveryState: domain.DeliveryPending})
			observer(domain.Message{ID: "a1", Role: domain.RoleAgent, Content: "Registrado!", DeliveryState: domain.DeliveryDelivered})
		}).
		Return(nil).Once()

	w := env.serve(env.request(http.MethodPost, "/api/v1/chat/messages", `{"content":"gastei 50 no mercado"}`, true))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event:message"))
	assert.Contains(t, body, "Registrado!")
	assert.True(t, strings.Index(body, "event:done") > strings.LastIndex(body, "event:message"))
	chat.AssertExpectations(t)
}

func TestChatHandler_SendMessageWhileBusyIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	chat := newChatSessionMock(env)
	chat.On("SendMessage", mock.Anything, "de novo", (*string)(nil), mock.Anything).Return(apperrors.ErrSendInProgress).Once()

	w := env.serve(env.request(http.MethodPost, "/api/v1/chat/messages", `{"content":"de novo"}`, true))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, w.Body.String())
	chat.AssertExpectations(t)
}

func TestChatHandler_SendMessageRejectsEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := env.serve(env.request(http.MethodPost, "/api/v1/chat/messages", `{"content":"   "}`, true))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.sessions.AssertNotCalled(t, "Session", mock.Anything, mock.Anything)
}

func TestChatHandler_ClearAndCancel(t *testing.T) {
	env := newTestEnv(t)
	chat := newChatSessionMock(env)
	chat.On("ClearMessages").Return(apperrors.ErrSendInProgress).Once()
	chat.On("ClearMessages").Return(nil).Once()
	chat.On("Cancel").Return().Once()

	w := env.serve(env.request(http.MethodDelete, "/api/v1/chat/messages", "", true))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.serve(env.request(http.MethodDelete, "/api/v1/chat/messages", "", true))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.serve(env.request(http.MethodPost, "/api/v1/chat/cancel", "", true))
	assert.Equal(t, http.StatusAccepted, w.Code)

	chat.AssertExpectations(t)
}

func TestChatHandler_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.serve(env.request(http.MethodGet, "/api/v1/chat", "", false))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
