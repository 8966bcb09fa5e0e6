package publications

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, adminRequired gin.HandlerFunc) {
	r.GET("/publications", h.listPublished)
	r.GET("/publications/:id", h.getPublication)
	r.POST("/publications/:id/views", h.incrementViews)
	r.GET("/categories", h.categories)

	admin := r.Group("/admin", adminRequired)
	admin.GET("/publications", h.listAll)
	admin.POST("/publications", h.create)
	admin.PUT("/publications/:id", h.update)
	admin.DELETE("/publications/:id", h.delete)
}

func (h *Handler) listPublished(c *gin.Context) {
	category := Category(c.Query("category"))
	if category == "all" {
		category = ""
	}
	if category != "" && !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "catégorie invalide"})
		return
	}
	pubs, err := h.repo.ListPublished(category)
	if err != nil {
		log.Printf("[PUBLICATIONS][list] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger les publications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pubs})
}

func (h *Handler) getPublication(c *gin.Context) {
	pub, err := h.repo.GetPublishedByID(c.Param("id"))
	if err != nil {
		log.Printf("[PUBLICATIONS][get] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger la publication"})
		return
	}
	if pub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Publication non trouvée"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pub})
}

func (h *Handler) incrementViews(c *gin.Context) {
	if err := h.repo.IncrementViews(c.Param("id")); err != nil {
		log.Printf("[PUBLICATIONS][views] failed id=%s: %v", c.Param("id"), err)
	}
	// Best effort; the reader experience never depends on the counter.
	c.Status(http.StatusNoContent)
}

func (h *Handler) categories(c *gin.Context) {
	counts, err := h.repo.CountsByCategory()
	if err != nil {
		log.Printf("[PUBLICATIONS][categories] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger les catégories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": counts})
}

func (h *Handler) listAll(c *gin.Context) {
	pubs, err := h.repo.ListAll()
	if err != nil {
		log.Printf("[PUBLICATIONS][admin-list] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger les publications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pubs})
}

// create accepts multipart form data: metadata fields plus optional "file"
// (PDF) and "cover" uploads. The PDF's page count is computed here so the
// preview cutoff is fixed at upload time.
func (h *Handler) create(c *gin.Context) {
	p := Publication{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(c.PostForm("title")),
		Author:      strings.TrimSpace(c.PostForm("author")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Category:    Category(c.PostForm("category")),
		IsPublished: c.PostForm("is_published") == "1" || c.PostForm("is_published") == "true",
	}
	if p.Title == "" || p.Author == "" || !p.Category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "titre, auteur et catégorie requis"})
		return
	}
	if err := h.storeUploads(c, &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible d'enregistrer les fichiers"})
		return
	}
	if err := h.repo.Create(&p); err != nil {
		log.Printf("[PUBLICATIONS][create] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de créer la publication"})
		return
	}
	log.Printf("[PUBLICATIONS][create] id=%s title=%q pages=%d preview=%d", p.ID, p.Title, p.PageCount, p.PreviewPageCount)
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (h *Handler) update(c *gin.Context) {
	existing, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger la publication"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Publication non trouvée"})
		return
	}
	if v := c.PostForm("title"); v != "" {
		existing.Title = strings.TrimSpace(v)
	}
	if v := c.PostForm("author"); v != "" {
		existing.Author = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("description"); ok {
		existing.Description = strings.TrimSpace(v)
	}
	if v := c.PostForm("category"); v != "" {
		cat := Category(v)
		if !cat.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "catégorie invalide"})
			return
		}
		existing.Category = cat
	}
	if v, ok := c.GetPostForm("is_published"); ok {
		existing.IsPublished = v == "1" || v == "true"
	}
	if err := h.storeUploads(c, existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible d'enregistrer les fichiers"})
		return
	}
	if err := h.repo.Update(existing); err != nil {
		log.Printf("[PUBLICATIONS][update] failed id=%s: %v", existing.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mise à jour impossible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": existing})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		log.Printf("[PUBLICATIONS][delete] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "suppression impossible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// storeUploads saves the optional "file" and "cover" parts under the
// publication's media folder and refreshes file_url/cover_image_url and the
// page counts.
func (h *Handler) storeUploads(c *gin.Context, p *Publication) error {
	base := filepath.Join("media", "publications", p.ID)

	if file, err := c.FormFile("file"); err == nil {
		dst := filepath.Join(base, "document.pdf")
		if err := c.SaveUploadedFile(file, dst); err != nil {
			log.Printf("[PUBLICATIONS][upload] save document failed id=%s: %v", p.ID, err)
			return err
		}
		p.FileURL = "/" + filepath.ToSlash(dst)
		pages, err := PageCount(dst)
		if err != nil {
			log.Printf("[PUBLICATIONS][upload] page count failed id=%s: %v", p.ID, err)
			pages = 0
		}
		p.PageCount = pages
		p.PreviewPageCount = PreviewPages(pages)
	}

	if cover, err := c.FormFile("cover"); err == nil {
		ext := strings.ToLower(filepath.Ext(cover.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp":
		default:
			ext = ".jpg"
		}
		dst := filepath.Join(base, "cover"+ext)
		if err := c.SaveUploadedFile(cover, dst); err != nil {
			log.Printf("[PUBLICATIONS][upload] save cover failed id=%s: %v", p.ID, err)
			return err
		}
		p.CoverImageURL = "/" + filepath.ToSlash(dst)
	}
	return nil
}
