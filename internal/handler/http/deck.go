package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
)

// DeckHandler exposes the read-only deck catalog.
type DeckHandler struct {
	catalog repository.CardCatalog
}

func NewDeckHandler(catalog repository.CardCatalog) *DeckHandler {
	if catalog == nil {
		panic("CardCatalog cannot be nil for DeckHandler")
	}
	return &DeckHandler{catalog: catalog}
}

type deckView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BackURL     string `json:"back_url"`
}

type listDecksResponse struct {
	Decks []deckView           `json:"decks"`
	Modes []domain.SessionMode `json:"modes"`
}

// ListDecks returns the active decks and the session modes rooms can be
// created with.
func (h *DeckHandler) ListDecks(c *gin.Context) {
	decks, err := h.catalog.ListActiveDecks(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Handler.ListDecks: Failed to list decks")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list decks")
		return
	}

	views := make([]deckView, 0, len(decks))
	for _, deck := range decks {
		views = append(views, deckView{
			ID:          deck.ID,
			Title:       deck.Title,
			Description: deck.Description,
			BackURL:     deck.BackFullURL,
		})
	}
	SuccessResponse(c, http.StatusOK, listDecksResponse{Decks: views, Modes: domain.Modes()})
}
