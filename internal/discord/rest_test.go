package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendAndEdit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bot secret", r.Header.Get("Authorization"))
		var body messageBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.NotNil(t, body.AllowedMentions) {
			assert.Empty(t, body.AllowedMentions.Parse)
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/channels/c1/messages":
			_ = json.NewEncoder(w).Encode(Message{ID: "m1", ChannelID: "c1", Content: body.Content})
		case r.Method == http.MethodPatch && r.URL.Path == "/channels/c1/messages/m1":
			_ = json.NewEncoder(w).Encode(Message{ID: "m1", ChannelID: "c1", Content: body.Content})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer server.Close()

	c := NewClient("secret", server.URL)
	m, err := c.SendMessage(context.Background(), "c1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "hello", m.Content)

	m, err = c.EditMessage(context.Background(), "c1", "m1", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", m.Content)
}

func TestClient_EditUnknownMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Unknown Message", "code": 10008}`))
	}))
	defer server.Close()

	_, err := NewClient("secret", server.URL).EditMessage(context.Background(), "c1", "gone", "x")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeUnknownMessage, apiErr.Code)
	assert.Equal(t, "Unknown Message", apiErr.Message)
}

func TestClient_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient("secret", server.URL).Channel(context.Background(), "c1")
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Forbidden")
}

func TestClient_ChannelMessagesPaginates(t *testing.T) {
	// канал из 250 сообщений, id 250..1 (новые первыми)
	const total = 250
	var befores []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/reports/messages", r.URL.Path)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.LessOrEqual(t, limit, maxPageSize)

		start := total
		if b := r.URL.Query().Get("before"); b != "" {
			befores = append(befores, b)
			n, _ := strconv.Atoi(b)
			start = n - 1
		}
		var page []Message
		for id := start; id > 0 && len(page) < limit; id-- {
			page = append(page, Message{ID: strconv.Itoa(id), Content: fmt.Sprintf("msg %d", id)})
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	c := NewClient("secret", server.URL)
	msgs, err := c.ChannelMessages(context.Background(), "reports", 300)
	require.NoError(t, err)
	require.Len(t, msgs, total)
	assert.Equal(t, "250", msgs[0].ID)
	assert.Equal(t, "1", msgs[total-1].ID)
	assert.Equal(t, []string{"151", "51"}, befores)

	msgs, err = c.ChannelMessages(context.Background(), "reports", 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 10)
}

func TestClient_Channel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"id":"c1","guild_id":"g1","name":"online","type":0}`))
	}))
	defer server.Close()

	ch, err := NewClient("secret", server.URL+"/").Channel(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, Channel{ID: "c1", GuildID: "g1", Name: "online"}, ch)
}

func TestMessage_HasRole(t *testing.T) {
	m := &Message{Member: &Member{Roles: []string{"r1", "r2"}}}
	assert.True(t, m.HasRole("r2"))
	assert.False(t, m.HasRole("r3"))
	assert.False(t, (&Message{}).HasRole("r1"))
}
