package stats

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the aggregated counters behind the admin dashboard so the
// client avoids firing one request per tile.
type Handler struct {
	db *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, adminRequired gin.HandlerFunc) {
	admin := r.Group("/admin", adminRequired)
	admin.GET("/stats", h.getStats)
}

func (h *Handler) getStats(c *gin.Context) {
	stats := gin.H{
		"publications_total":     h.count("SELECT COUNT(1) FROM publications"),
		"publications_published": h.count("SELECT COUNT(1) FROM publications WHERE is_published=1"),
		"views_total":            h.count("SELECT IFNULL(SUM(views_count),0) FROM publications"),
		"users_total":            h.count("SELECT COUNT(1) FROM users"),
		"premium_users":          h.count("SELECT COUNT(1) FROM user_profiles WHERE subscription_type='premium'"),
		"unread_messages":        h.count("SELECT COUNT(1) FROM contact_messages WHERE is_read=0"),
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// count runs a single-value aggregate; failures log and report zero rather
// than failing the whole dashboard.
func (h *Handler) count(query string) int {
	var n int
	if err := h.db.QueryRow(query).Scan(&n); err != nil {
		log.Printf("[STATS][query] failed %q: %v", query, err)
		return 0
	}
	return n
}
