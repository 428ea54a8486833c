package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/swasthyasaathi/bot/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *WhatsAppClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWhatsAppClient(srv.URL, "token", "12345", 5*time.Second, zap.NewNop())
}

func TestSendText(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.SendText(context.Background(), "919900112233", "hello"))

	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "919900112233", got["to"])
	assert.Equal(t, "text", got["type"])
	text := got["text"].(map[string]any)
	assert.Equal(t, "hello", text["body"])
}

func TestSendButtons(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{}`))
	})

	buttons := []models.Button{
		{ID: "consent_yes", Title: "हाँ / Yes"},
		{ID: "consent_no", Title: "नहीं / No"},
	}
	require.NoError(t, client.SendButtons(context.Background(), "919900112233", "Continue?", buttons))

	assert.Equal(t, "interactive", got["type"])
	interactive := got["interactive"].(map[string]any)
	action := interactive["action"].(map[string]any)
	frames := action["buttons"].([]any)
	require.Len(t, frames, 2)
	first := frames[0].(map[string]any)
	assert.Equal(t, "reply", first["type"])
	reply := first["reply"].(map[string]any)
	assert.Equal(t, "consent_yes", reply["id"])
}

func TestSend_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad token"}`, http.StatusUnauthorized)
	})

	err := client.SendText(context.Background(), "919900112233", "hello")
	assert.Error(t, err)
}
