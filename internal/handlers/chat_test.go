package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"ragbot/internal/chat"
	"ragbot/internal/handlers/mocks"
	"ragbot/internal/provider"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		body          any
		userID        string
		mockSetup     func(m *mocks.MockOrchestrator)
		wantStatus    int
		checkResponse func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:   "successful chat turn",
			body:   ChatRequest{Message: "Hello"},
			userID: "user-1",
			mockSetup: func(m *mocks.MockOrchestrator) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), "bot-1", "user-1", chat.ProcessRequest{Message: "Hello"}).
					Return(&chat.ProcessResponse{
						Message:        "Hi there!",
						SessionID:      "sess-1",
						ChunksUsed:     []chat.ChunkPreview{},
						ProcessingTime: 42 * time.Millisecond,
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ChatResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Message != "Hi there!" || resp.SessionID != "sess-1" {
					t.Errorf("response = %+v", resp)
				}
				if resp.ProcessingTimeMs != 42 {
					t.Errorf("processing time = %d, want 42", resp.ProcessingTimeMs)
				}
			},
		},
		{
			name:       "missing user header",
			body:       ChatRequest{Message: "Hello"},
			userID:     "",
			mockSetup:  func(m *mocks.MockOrchestrator) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid JSON body",
			body:       "not json",
			userID:     "user-1",
			mockSetup:  func(m *mocks.MockOrchestrator) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			body:   ChatRequest{Message: ""},
			userID: "user-1",
			mockSetup: func(m *mocks.MockOrchestrator) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), "bot-1", "user-1", chat.ProcessRequest{Message: ""}).
					Return(nil, &chat.ValidationError{Field: "message", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "bot not found",
			body:   ChatRequest{Message: "Hello"},
			userID: "user-1",
			mockSetup: func(m *mocks.MockOrchestrator) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), "bot-1", "user-1", gomock.Any()).
					Return(nil, chat.ErrBotNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "permission denied",
			body:   ChatRequest{Message: "Hello"},
			userID: "user-1",
			mockSetup: func(m *mocks.MockOrchestrator) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), "bot-1", "user-1", gomock.Any()).
					Return(nil, chat.ErrPermissionDenied)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "missing credential",
			body:   ChatRequest{Message: "Hello"},
			userID: "user-1",
			mockSetup: func(m *mocks.MockOrchestrator) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), "bot-1", "user-1", gomock.Any()).
					Return(nil, chat.ErrMissingCredential)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "upstream provider failure",
			body:   ChatRequest{Message: "Hello"},
			userID: "user-1",
			mockSetup: func(m *mocks.MockOrchestrator) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), "bot-1", "user-1", gomock.Any()).
					Return(nil, &provider.UpstreamError{Provider: "openai", StatusCode: 500})
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "internal error",
			body:   ChatRequest{Message: "Hello"},
			userID: "user-1",
			mockSetup: func(m *mocks.MockOrchestrator) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), "bot-1", "user-1", gomock.Any()).
					Return(nil, errors.New("db locked"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockOrch := mocks.NewMockOrchestrator(ctrl)
			tt.mockSetup(mockOrch)
			handler := NewChatHandler(mockOrch)

			var body bytes.Buffer
			if s, ok := tt.body.(string); ok {
				body.WriteString(s)
			} else if err := json.NewEncoder(&body).Encode(tt.body); err != nil {
				t.Fatalf("encode body: %v", err)
			}

			r := httptest.NewRequest(http.MethodPost, "/api/bots/bot-1/chat", &body)
			if tt.userID != "" {
				r.Header.Set("X-User-ID", tt.userID)
			}
			r = withURLParam(r, "botID", "bot-1")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}
