package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// MessageHandler produces the reply for one inbound message. An empty reply
// means nothing is sent back.
type MessageHandler interface {
	HandleMessage(ctx context.Context, from, text string) (string, error)
}

// Notifier delivers a reply to the user who sent the inbound message.
type Notifier interface {
	SendMessage(ctx context.Context, phoneNumber, text string) error
}

// Handler receives WhatsApp webhook deliveries.
type Handler struct {
	router   MessageHandler
	notifier Notifier
}

func NewHandler(router MessageHandler, notifier Notifier) *Handler {
	return &Handler{router: router, notifier: notifier}
}

// RegisterRoutes registers the webhook route with Gorilla Mux.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/webhook", h.HandleWebhook).Methods("POST")
}

type webhookBody struct {
	Messages []inboundMessage `json:"messages"`
}

type inboundMessage struct {
	From string       `json:"from"`
	Text *inboundText `json:"text"`
}

type inboundText struct {
	Body string `json:"body"`
}

// message is the validated (sender, text) pair handed to the router.
type message struct {
	From string
	Text string
}

type processedResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// HandleWebhook processes one webhook delivery. Only the first entry of the
// messages array is handled; the rest are ignored.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := parseWebhookBody(r)
	if err != nil {
		slog.Error("Invalid webhook body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	slog.Info("Received webhook", "messages", len(body.Messages))

	msg := extractMessage(body)
	if msg == nil {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	if err := validateMessage(msg); err != nil {
		slog.Error("Invalid message", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid message format")
		return
	}

	response, err := h.router.HandleMessage(r.Context(), msg.From, msg.Text)
	if err != nil {
		slog.Error("Failed to process message", "from", msg.From, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	// Send failures are logged only; the webhook caller still sees success.
	if response != "" {
		if err := h.notifier.SendMessage(r.Context(), msg.From, response); err != nil {
			slog.Error("Failed to send WhatsApp message", "to", msg.From, "error", err)
		}
	}

	respondWithJSON(w, http.StatusOK, processedResponse{Status: "processed", Response: response})
}

func parseWebhookBody(r *http.Request) (*webhookBody, error) {
	var body webhookBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

// extractMessage returns the first message, or nil when the payload carries
// none.
func extractMessage(body *webhookBody) *message {
	if len(body.Messages) == 0 {
		return nil
	}

	first := body.Messages[0]
	msg := &message{From: first.From}
	if first.Text != nil {
		msg.Text = strings.TrimSpace(first.Text.Body)
	}
	return msg
}

func validateMessage(msg *message) error {
	if strings.TrimSpace(msg.From) == "" {
		return fmt.Errorf("message is missing a sender")
	}
	return nil
}

// Helper function to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
