package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/swasthyasaathi/bot/internal/router"
)

// MessageRouter is the conversation-core surface the handlers need.
type MessageRouter interface {
	Handle(ctx context.Context, senderID, text string) error
	Broadcast(ctx context.Context, pincode, disease string) (int, error)
}

type Handlers struct {
	router      MessageRouter
	verifyToken string
	logger      *zap.Logger
}

func NewHandlers(r MessageRouter, verifyToken string, logger *zap.Logger) *Handlers {
	return &Handlers{
		router:      r,
		verifyToken: verifyToken,
		logger:      logger,
	}
}

// Mux builds the route table.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/webhook/whatsapp", h.Webhook)
	mux.HandleFunc("/alerts/mock", h.MockAlert)
	return mux
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Webhook serves both the Meta verification handshake (GET) and
// inbound message events (POST).
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.verify(w, r)
	case http.MethodPost:
		h.incoming(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.verify_token") == h.verifyToken {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	h.logger.Warn("webhook verification failed")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte("error"))
}

// WhatsApp webhook envelope, reduced to the fields we read.

type webhookEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		ButtonReply struct {
			ID string `json:"id"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// incoming extracts (sender, text) from the envelope and routes it. A
// malformed envelope is logged and dropped without state mutation; the
// gateway still gets a 200 so it does not retry forever.
func (h *Handlers) incoming(w http.ResponseWriter, r *http.Request) {
	var envelope webhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		h.logger.Warn("failed to parse webhook payload", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
		return
	}

	sender, text, ok := extractMessage(envelope)
	if !ok {
		h.logger.Warn("webhook payload carried no routable message")
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
		return
	}

	if err := h.router.Handle(r.Context(), sender, text); err != nil {
		h.logger.Error("failed to handle inbound message",
			zap.Error(err),
			zap.String("user_id", sender))
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func extractMessage(envelope webhookEnvelope) (sender, text string, ok bool) {
	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Changes) == 0 {
		return "", "", false
	}
	messages := envelope.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return "", "", false
	}

	msg := messages[0]
	if msg.From == "" {
		return "", "", false
	}
	switch {
	case msg.Type == "text" && msg.Text != nil:
		return msg.From, msg.Text.Body, true
	case msg.Type == "interactive" && msg.Interactive != nil:
		return msg.From, msg.Interactive.ButtonReply.ID, true
	default:
		return msg.From, "", true
	}
}

type mockAlertRequest struct {
	Pincode string `json:"pincode"`
	Disease string `json:"disease"`
}

// MockAlert triggers a demo broadcast to all consenting users at a
// pincode.
func (h *Handlers) MockAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req mockAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Disease == "" {
		req.Disease = "dengue"
	}

	sent, err := h.router.Broadcast(r.Context(), req.Pincode, req.Disease)
	if errors.Is(err, router.ErrNoRecipients) {
		writeJSON(w, http.StatusOK, map[string]any{
			"sent": 0,
			"note": "No users with that pincode/consent",
		})
		return
	}
	if err != nil {
		h.logger.Error("broadcast failed",
			zap.Error(err),
			zap.String("pincode", req.Pincode))
		http.Error(w, "broadcast failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sent": sent})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
