package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"Antigravity Ultra","version":"1.0.0","database":"sqlite"}`))
	})
	mux.HandleFunc("GET /api/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"models": [
				{"name":"llama-3.1-70b-versatile","provider":"groq","context_length":131072,"speed":"fast"},
				{"name":"ollama/llama3.1","provider":"ollama","context_length":128000,"speed":"medium"}
			],
			"default": "llama-3.1-70b-versatile"
		}`))
	})
	mux.HandleFunc("GET /api/conversations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversations":[
			{"id":"c1","title":"Plans","updated_at":"2024-06-01T10:00:00","message_count":4},
			{"id":"c2","title":"","updated_at":"2024-06-02T09:30:00","message_count":2}
		]}`))
	})
	mux.HandleFunc("GET /api/conversations/c1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversation_id":"c1","messages":[
			{"role":"user","content":"hi","timestamp":"2024-06-01T10:00:00"},
			{"role":"assistant","content":"hello","timestamp":"2024-06-01T10:00:02"}
		]}`))
	})
	mux.HandleFunc("POST /api/conversations", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"conversation_id": "c9",
			"title":           body.Title,
		})
	})
	mux.HandleFunc("DELETE /api/conversations/c1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Conversation deleted"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	c := New(newBackend(t).URL)
	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "Antigravity Ultra", h.Service)
}

func TestListModels(t *testing.T) {
	c := New(newBackend(t).URL)
	catalog, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Models, 2)
	assert.Equal(t, "llama-3.1-70b-versatile", catalog.Default)
	assert.Equal(t, "groq", catalog.Models[0].Provider)
	assert.Equal(t, 131072, catalog.Models[0].ContextLength)
}

func TestListConversations(t *testing.T) {
	c := New(newBackend(t).URL)
	summaries, err := c.ListConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "c1", summaries[0].ID)
	assert.Equal(t, "Plans", summaries[0].Title)
	assert.Equal(t, 4, summaries[0].MessageCount)
}

func TestGetConversation(t *testing.T) {
	c := New(newBackend(t).URL)
	conv, err := c.GetConversation(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", conv.ConversationID)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "assistant", conv.Messages[1].Role)
}

func TestCreateConversation(t *testing.T) {
	c := New(newBackend(t).URL)
	created, err := c.CreateConversation(context.Background(), "New chat")
	require.NoError(t, err)
	assert.Equal(t, "c9", created.ID)
	assert.Equal(t, "New chat", created.Title)
}

func TestDeleteConversation(t *testing.T) {
	c := New(newBackend(t).URL)
	assert.NoError(t, c.DeleteConversation(context.Background(), "c1"))
}

func TestErrorStatusSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	_, err := c.ListConversations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
