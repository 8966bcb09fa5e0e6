package profile

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"plume-backend/config"
	"plume-backend/entitlement"
	"plume-backend/login"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	profiles *entitlement.Repository
}

func NewHandler(profiles *entitlement.Repository) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes registers profile endpoints
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/user-detail/:id", h.getProfile)
}

func (h *Handler) getProfile(c *gin.Context) {
	user := login.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide ou expiré"})
		return
	}
	if idParam, err := strconv.Atoi(c.Param("id")); err == nil && idParam != 0 && idParam != user.ID {
		log.Printf("[PROFILE][GET] id mismatch: param=%d sessionUserID=%d email=%s", idParam, user.ID, user.Email)
		// Continue but log mismatch; the token decides identity.
	}

	// Ensure the entitlement profile exists so tier checks always resolve.
	prof, err := h.profiles.EnsureProfile(user.ID, user.Email, user.FirstName+" "+user.LastName)
	if err != nil {
		log.Printf("[PROFILE][GET] ensure profile failed for userID=%d: %v", user.ID, err)
	}

	resp := gin.H{
		"id":         user.ID,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"full_name":  user.FirstName + " " + user.LastName,
		"role":       user.Role,
		"created_at": user.CreatedAt.Format(time.RFC3339),
		"updated_at": user.UpdatedAt.Format(time.RFC3339),
	}
	if prof != nil {
		resp["subscription_type"] = prof.SubscriptionType
		resp["subscription_updated_at"] = prof.SubscriptionUpdatedAt
		resp["is_premium"] = prof.Premium()
		log.Printf("[PROFILE][TIER] user=%d type=%s", user.ID, prof.SubscriptionType)
	} else {
		// Degraded read: report the conservative tier, never guess premium.
		resp["subscription_type"] = entitlement.SubscriptionFree
		resp["is_premium"] = false
	}
	resp["hide_premium_ui"] = config.HidePremiumUI()
	log.Printf("[PROFILE][GET] success id=%d email=%s", user.ID, user.Email)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
