package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"donate/internal/repository"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

// DonationHandler serves the public donation activity feed from the ledger.
type DonationHandler struct {
	donations repository.DonationRepository
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donations repository.DonationRepository) *DonationHandler {
	return &DonationHandler{donations: donations}
}

// DonationFeedItem is one entry of the activity feed. Donor emails never
// leave the server.
type DonationFeedItem struct {
	DonorName string    `json:"donorName"`
	Amount    float64   `json:"amount"`
	Campaign  string    `json:"campaign"`
	DonatedAt time.Time `json:"donatedAt"`
}

// ListRecent handles GET /v1/donations/recent
func (h *DonationHandler) ListRecent(c *gin.Context) {
	limit := defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	donations, err := h.donations.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]DonationFeedItem, 0, len(donations))
	for _, d := range donations {
		items = append(items, DonationFeedItem{
			DonorName: d.DonorName,
			Amount:    d.Amount,
			Campaign:  d.Campaign,
			DonatedAt: d.CreatedAt,
		})
	}

	respondJSON(c, http.StatusOK, gin.H{"donations": items})
}
