package entitlement

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo  *Repository
	cache *Cache
}

func NewHandler(repo *Repository, cache *Cache) *Handler {
	return &Handler{repo: repo, cache: cache}
}

// RegisterRoutes mounts the admin write path of the entitlement model.
// adminRequired guards every route.
func (h *Handler) RegisterRoutes(r *gin.Engine, adminRequired gin.HandlerFunc) {
	admin := r.Group("/admin", adminRequired)
	admin.GET("/users", h.listUsers)
	admin.PUT("/users/:user_id/subscription", h.updateSubscription)
}

func (h *Handler) listUsers(c *gin.Context) {
	filter := SubscriptionType(c.Query("type"))
	if filter != "" && !filter.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type invalide"})
		return
	}
	profiles, err := h.repo.ListProfiles(filter)
	if err != nil {
		log.Printf("[ADMIN][users] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger les utilisateurs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}

type updateSubscriptionPayload struct {
	SubscriptionType SubscriptionType `json:"subscription_type"`
}

func (h *Handler) updateSubscription(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id invalide"})
		return
	}
	var p updateSubscriptionPayload
	if err := c.ShouldBindJSON(&p); err != nil || !p.SubscriptionType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subscription_type invalide"})
		return
	}
	if err := h.repo.SetSubscriptionType(userID, p.SubscriptionType); err != nil {
		log.Printf("[ADMIN][subscription] update failed user_id=%d type=%s err=%v", userID, p.SubscriptionType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mise à jour impossible"})
		return
	}
	h.cache.Invalidate(userID)
	log.Printf("[ADMIN][subscription] user_id=%d type=%s", userID, p.SubscriptionType)
	updated, err := h.repo.GetProfileByUserID(userID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}
