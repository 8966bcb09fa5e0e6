package contact

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	mailer "plume-backend/email"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Message is a contact-form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(m *Message) error {
	_, err := r.db.Exec(
		`INSERT INTO contact_messages (id, name, email, subject, message) VALUES (?,?,?,?,?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Message,
	)
	return err
}

func (r *Repository) List() ([]Message, error) {
	rows, err := r.db.Query(`SELECT id, name, email, IFNULL(subject,''), message, is_read, created_at FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *Repository) MarkRead(id string) error {
	_, err := r.db.Exec(`UPDATE contact_messages SET is_read=1 WHERE id=?`, id)
	return err
}

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, adminRequired gin.HandlerFunc) {
	r.POST("/contact", h.submit)

	admin := r.Group("/admin", adminRequired)
	admin.GET("/contact-messages", h.list)
	admin.PUT("/contact-messages/:id/read", h.markRead)
}

type submitPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *Handler) submit(c *gin.Context) {
	var p submitPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Message = strings.TrimSpace(p.Message)
	if p.Name == "" || p.Email == "" || p.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, e-mail et message requis"})
		return
	}
	m := Message{
		ID:      uuid.NewString(),
		Name:    p.Name,
		Email:   p.Email,
		Subject: strings.TrimSpace(p.Subject),
		Message: p.Message,
	}
	if err := h.repo.Create(&m); err != nil {
		log.Printf("[CONTACT][submit] store failed from=%s: %v", p.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible d'envoyer le message"})
		return
	}
	if err := mailer.SendAdminContactNotification(m.Name, m.Email, m.Subject, m.Message); err != nil {
		log.Printf("[CONTACT][submit] admin notification failed from=%s: %v", m.Email, err)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message envoyé"})
}

func (h *Handler) list(c *gin.Context) {
	msgs, err := h.repo.List()
	if err != nil {
		log.Printf("[CONTACT][list] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger les messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": msgs})
}

func (h *Handler) markRead(c *gin.Context) {
	if err := h.repo.MarkRead(c.Param("id")); err != nil {
		log.Printf("[CONTACT][read] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mise à jour impossible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
