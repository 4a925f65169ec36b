package handlers

import (
	"buho-backend/internal/auth"
	"buho-backend/internal/llm"
	"buho-backend/internal/models"
	"buho-backend/internal/services"
	"buho-backend/internal/store"
	"buho-backend/pkg/httputil"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
)

// ChatHandlers handles chat turn requests.
type ChatHandlers struct {
	chatService *services.ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService) *ChatHandlers {
	return &ChatHandlers{chatService: chatService}
}

// HandleChat runs one chat turn: the user message is routed through the
// retrieval pipeline, completed by the provider, and both messages are
// appended to the conversation.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" || req.ConversationID == uuid.Nil {
		httputil.RespondError(w, http.StatusBadRequest, "Falta el mensaje o el ID de la conversación")
		return
	}

	reply, scraped, err := h.chatService.SendMessage(r.Context(), userID, req.ConversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Conversación no encontrada")
		case errors.Is(err, store.ErrForbidden):
			httputil.RespondError(w, http.StatusForbidden, "Acceso no autorizado")
		case errors.Is(err, llm.ErrNotConfigured):
			httputil.RespondError(w, http.StatusServiceUnavailable, "El proveedor de IA no está configurado")
		case errors.Is(err, services.ErrCompletion):
			log.Printf("HandleChat: completion failed for conversation %s: %v", req.ConversationID, err)
			httputil.RespondError(w, http.StatusBadGateway, "Error al procesar la respuesta del asistente")
		default:
			log.Printf("HandleChat: turn failed for conversation %s: %v", req.ConversationID, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Error interno del servidor")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ChatResponse{
		Success: true,
		Message: reply,
		Scraped: scraped,
	})
}
