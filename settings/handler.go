package settings

import (
	"log"
	"net/http"

	"plume-backend/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, adminRequired gin.HandlerFunc) {
	r.GET("/payment-settings", h.getPaymentSettings)
	r.GET("/billing-config", h.getBillingConfig)

	admin := r.Group("/admin", adminRequired)
	admin.PUT("/payment-settings", h.updatePaymentSettings)
}

func (h *Handler) getPaymentSettings(c *gin.Context) {
	if config.HidePremiumUI() {
		// Monetization suppressed: no payment references go out.
		c.JSON(http.StatusOK, gin.H{"data": nil, "coming_soon": config.ComingSoonMessage})
		return
	}
	s := h.repo.GetPaymentSettings()
	c.JSON(http.StatusOK, gin.H{"data": s.Instructions()})
}

func (h *Handler) getBillingConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"billing_enabled":     config.BillingEnabled,
		"hide_premium_ui":     config.HidePremiumUI(),
		"coming_soon_message": config.ComingSoonMessage,
		"play_store_products": gin.H{"premium": config.PlayStoreProductPremium},
	}})
}

// updatePaymentSettings applies a partial update: only known payment keys
// are written, unknown keys are rejected so typos don't create dead rows.
func (h *Handler) updatePaymentSettings(c *gin.Context) {
	var payload map[string]string
	if err := c.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "données invalides"})
		return
	}
	for key := range payload {
		if !knownKey(key) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "clé inconnue: " + key})
			return
		}
	}
	for key, value := range payload {
		if err := h.repo.UpsertPaymentSetting(key, value); err != nil {
			log.Printf("[SETTINGS][payment] update failed key=%s: %v", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mise à jour impossible"})
			return
		}
	}
	s := h.repo.GetPaymentSettings()
	c.JSON(http.StatusOK, gin.H{"data": s})
}
