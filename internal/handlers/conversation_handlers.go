package handlers

import (
	"buho-backend/internal/auth"
	"buho-backend/internal/models"
	"buho-backend/internal/services"
	"buho-backend/internal/store"
	"buho-backend/pkg/httputil"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ConversationHandlers handles conversation lifecycle requests.
type ConversationHandlers struct {
	convService *services.ConversationService
}

// NewConversationHandlers creates a new ConversationHandlers instance.
func NewConversationHandlers(convService *services.ConversationService) *ConversationHandlers {
	return &ConversationHandlers{convService: convService}
}

// HandleCreateConversation creates a new empty conversation for the user.
func (h *ConversationHandlers) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resp, err := h.convService.CreateConversation(r.Context(), userID)
	if err != nil {
		log.Printf("HandleCreateConversation: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Error al crear la conversación")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// HandleListConversations lists the user's conversations, most recent first.
func (h *ConversationHandlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summaries, err := h.convService.ListConversations(r.Context(), userID)
	if err != nil {
		log.Printf("HandleListConversations: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Error al obtener las conversaciones")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// HandleGetConversation returns one conversation with its full message log.
func (h *ConversationHandlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	convID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conv, err := h.convService.GetConversation(r.Context(), userID, convID)
	if err != nil {
		respondConversationError(w, err, "Error al obtener el historial")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// HandleDeleteConversation deletes a conversation owned by the user.
func (h *ConversationHandlers) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	convID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	if err := h.convService.DeleteConversation(r.Context(), userID, convID); err != nil {
		respondConversationError(w, err, "Error al eliminar la conversación")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.DeleteResponse{Success: true})
}

// respondConversationError maps store sentinels onto the API's status codes:
// missing records and foreign records are surfaced distinctly.
func respondConversationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Conversación no encontrada")
	case errors.Is(err, store.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "Acceso no autorizado")
	default:
		log.Printf("Conversation handler error: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, fallback)
	}
}
