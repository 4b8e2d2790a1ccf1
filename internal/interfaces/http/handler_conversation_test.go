package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victorwamb/IA-PF/internal/entities"
)

func createConversation(t *testing.T, s *testServer, lang string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/conversations", gin.H{"lang": lang}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		ID          string   `json:"id"`
		Lang        string   `json:"lang"`
		Suggestions []string `json:"suggestions"`
	}
	decode(t, w, &body)
	require.NotEmpty(t, body.ID)
	assert.Len(t, body.Suggestions, 4)
	return body.ID
}

type messageResponse struct {
	Result   entities.ResolutionResult    `json:"result"`
	Messages entities.ConversationHistory `json:"messages"`
}

func TestConversationJSONFlow(t *testing.T) {
	s := newTestServer(t, nil)
	id := createConversation(t, s, "en")

	w := s.do(t, http.MethodPost, "/api/conversations/"+id+"/messages", gin.H{"message": "hello"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp messageResponse
	decode(t, w, &resp)
	assert.Equal(t, entities.SourcePredefined, resp.Result.Source)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, entities.SenderUser, resp.Messages[0].Sender)
	assert.Equal(t, entities.SenderBot, resp.Messages[1].Sender)

	w = s.do(t, http.MethodPost, "/api/conversations/"+id+"/messages", gin.H{"message": "qwerty", "lang": "fr"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, entities.SourceDefault, resp.Result.Source)
	assert.Equal(t, s.handler.catalog.Unsure("fr"), resp.Result.Text)

	w = s.do(t, http.MethodGet, "/api/conversations/"+id, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var conv struct {
		Lang     string                       `json:"lang"`
		Messages entities.ConversationHistory `json:"messages"`
	}
	decode(t, w, &conv)
	assert.Equal(t, "fr", conv.Lang)
	assert.Len(t, conv.Messages, 4)

	w = s.do(t, http.MethodDelete, "/api/conversations/"+id, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/conversations/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConversationErrors(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/conversations", gin.H{"lang": "de"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/conversations/not-a-uuid/messages", gin.H{"message": "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/conversations/6f1c1f5e-8a3b-4a8e-9a57-0c0e4a4a2b11/messages", gin.H{"message": "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := createConversation(t, s, "")
	w = s.do(t, http.MethodPost, "/api/conversations/"+id+"/messages", gin.H{"message": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/conversations/"+id+"x", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateConversationWithoutBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/conversations", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"lang":"en"`)
}

func TestConversationStream(t *testing.T) {
	s := newTestServer(t, &stubCompleter{text: "Hi!"})
	id := createConversation(t, s, "en")

	req := httptest.NewRequest(http.MethodPost, "/api/conversations/"+id+"/messages?stream=true", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := newStreamRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream"))

	events := sseEvents(t, w.Body.String())
	require.Len(t, events, 4, w.Body.String())
	var partials []string
	for _, e := range events[:3] {
		require.Equal(t, "typing", e.Event)
		var data struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.Unmarshal([]byte(e.Data), &data))
		partials = append(partials, data.Text)
	}
	assert.Equal(t, []string{"H", "Hi", "Hi!"}, partials)

	require.Equal(t, "done", events[3].Event)
	var done messageResponse
	require.NoError(t, json.Unmarshal([]byte(events[3].Data), &done))
	assert.Equal(t, entities.ResolutionResult{Text: "Hi!", Source: entities.SourceRemote}, done.Result)
	assert.Len(t, done.Messages, 2)
}

func TestConversationPendingReturnsConflict(t *testing.T) {
	completer := &stubCompleter{text: "slow answer", release: make(chan struct{})}
	s := newTestServer(t, completer)
	id := createConversation(t, s, "en")
	conv, ok := s.sessions.Get(id)
	require.True(t, ok)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- s.do(t, http.MethodPost, "/api/conversations/"+id+"/messages", gin.H{"message": "tell me a story"}, nil)
	}()
	require.Eventually(t, conv.Pending, time.Second, time.Millisecond)

	w := s.do(t, http.MethodPost, "/api/conversations/"+id+"/messages", gin.H{"message": "hello?"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "thinking")

	close(completer.release)
	res := <-first
	require.Equal(t, http.StatusOK, res.Code)
	var resp messageResponse
	decode(t, res, &resp)
	assert.Equal(t, "slow answer", resp.Result.Text)
	assert.Len(t, conv.Messages(), 2, "the rejected message is not logged")
}
