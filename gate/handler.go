package gate

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"plume-backend/entitlement"
	"plume-backend/publications"
	"plume-backend/readingtime"
	"plume-backend/settings"
	"plume-backend/sse"

	"github.com/gin-gonic/gin"
)

// PublicationSource yields protected documents; satisfied by
// publications.Repository.
type PublicationSource interface {
	GetPublishedByID(id string) (*publications.Publication, error)
}

// PaymentSource yields the manual payment instructions; satisfied by
// settings.Repository.
type PaymentSource interface {
	GetPaymentSettings() settings.PaymentSettings
}

// Deterrence tells the viewer which default behaviors to suppress while the
// gated document is mounted. Best-effort copy deterrence only: it does not
// prevent screenshots, devtools extraction or direct retrieval of the file
// URL, and it is not a security control. The viewer must restore defaults
// on unmount.
type Deterrence struct {
	DisableCopy        bool `json:"disable_copy"`
	DisableCut         bool `json:"disable_cut"`
	DisableContextMenu bool `json:"disable_context_menu"`
	DisableSelection   bool `json:"disable_selection"`
	DisableDrag        bool `json:"disable_drag"`
	DisableSavePrint   bool `json:"disable_save_print"`
}

func fullDeterrence() *Deterrence {
	return &Deterrence{
		DisableCopy:        true,
		DisableCut:         true,
		DisableContextMenu: true,
		DisableSelection:   true,
		DisableDrag:        true,
		DisableSavePrint:   true,
	}
}

// Render modes produced by the gate.
const (
	ModeFull    = "full"
	ModePreview = "preview"
	ModeLocked  = "locked"
	ModeExpired = "expired"
)

type Handler struct {
	gate     *Gate
	pubs     PublicationSource
	payments PaymentSource
	keeper   *SessionKeeper

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func NewHandler(g *Gate, pubs PublicationSource, payments PaymentSource, keeper *SessionKeeper) *Handler {
	return &Handler{gate: g, pubs: pubs, payments: payments, keeper: keeper, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/publications/:id/access", h.access)
	r.GET("/publications/:id/download", h.download)
	r.POST("/reading-session/sync", h.syncSession)
	r.GET("/reading-session/events", h.sessionEvents)
}

// access combines the entitlement verdict with the reading-session state
// into the final render directive for one document. Expiration never
// downgrades a FullAccess verdict; it only gates preview/locked reading.
func (h *Handler) access(c *gin.Context) {
	pub, err := h.pubs.GetPublishedByID(c.Param("id"))
	if err != nil {
		log.Printf("[GATE][access] publication lookup failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger la publication"})
		return
	}
	if pub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Publication non trouvée"})
		return
	}

	overlay := c.Query("overlay") == "1" || c.Query("overlay") == "true"
	decision, status := h.gate.Verdict(c, overlay)

	// Mounting the reading surface starts the timer for any visitor.
	nowMs := h.Now().UnixMilli()
	sess := readingtime.InitializeSession(h.keeper.Load(c.Request), nowMs)
	h.keeper.Save(c.Request, c.Writer, sess)
	remaining := sess.Remaining()
	if remaining < 0 {
		remaining = 0
	}
	expired := remaining <= 0

	mode := ModeLocked
	switch {
	case decision.Level == entitlement.FullAccess:
		mode = ModeFull
	case expired:
		mode = ModeExpired
	case decision.Level == entitlement.PreviewOnly:
		mode = ModePreview
	}

	resp := gin.H{
		"mode":                mode,
		"can_download":        decision.CanDownload,
		"remaining_ms":        remaining,
		"remaining_formatted": readingtime.FormatRemaining(remaining),
		"warning":             remaining > 0 && remaining <= readingtime.WarningThreshold.Milliseconds(),
		"profile_status":      status,
	}
	if mode == ModeFull || mode == ModePreview {
		resp["deterrence"] = fullDeterrence()
	}
	if mode == ModePreview {
		resp["preview_fraction"] = decision.PreviewFraction
		resp["preview_pages"] = pub.PreviewPageCount
	}
	if decision.Message != "" {
		resp["message"] = decision.Message
	}
	if mode == ModeExpired {
		resp["message"] = "Votre session de lecture gratuite de 30 minutes est terminée. Pour continuer à lire et télécharger ce document, veuillez effectuer le paiement."
	}
	if (mode == ModeExpired || mode == ModeLocked) && h.gate.billingEnabled {
		resp["payment"] = h.payments.GetPaymentSettings().Instructions()
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// download is gated solely by the entitlement verdict, independent of the
// reading timer.
func (h *Handler) download(c *gin.Context) {
	pub, err := h.pubs.GetPublishedByID(c.Param("id"))
	if err != nil {
		log.Printf("[GATE][download] publication lookup failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger la publication"})
		return
	}
	if pub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Publication non trouvée"})
		return
	}

	decision, _ := h.gate.Verdict(c, false)
	if !decision.CanDownload {
		log.Printf("[GATE][download][deny] id=%s level=%s", pub.ID, decision.Level)
		resp := gin.H{"error": "Téléchargement réservé", "message": decision.Message}
		if h.gate.billingEnabled {
			resp["payment"] = h.payments.GetPaymentSettings().Instructions()
		}
		c.JSON(http.StatusForbidden, resp)
		return
	}
	if pub.FileURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun fichier pour cette publication"})
		return
	}
	c.Redirect(http.StatusFound, pub.FileURL)
}

type syncPayload struct {
	// PublicationID is accepted for future per-document quotas but the
	// session stays site-wide; it does not key the stored record.
	PublicationID string `json:"publication_id"`
	Active        *bool  `json:"active"`
}

// syncSession applies one timer step to the cookie-held session. The client
// calls it once per second while the reading surface is visible; with
// active=false (tab hidden) nothing accrues and nothing is persisted.
func (h *Handler) syncSession(c *gin.Context) {
	var p syncPayload
	// An empty body means an active tick; binding failures fall back to that.
	_ = c.ShouldBindJSON(&p)
	active := p.Active == nil || *p.Active

	nowMs := h.Now().UnixMilli()
	existing := h.keeper.Load(c.Request)
	sess := readingtime.InitializeSession(existing, nowMs)
	initialized := sess != existing

	if !active {
		// Paused: report state without mutating the record.
		h.respondSession(c, sess, initialized)
		return
	}
	if !initialized && sess.Remaining() > 0 {
		sess = readingtime.Advance(sess, nowMs)
	}
	h.keeper.Save(c.Request, c.Writer, sess)
	h.respondSession(c, sess, initialized)
}

// respondSession reports the session snapshot. The warning flag is
// level-triggered: it stays set on every response inside the low-time
// window, since the cookie record carries no dismissal state. Clients with a
// dismissable banner deduplicate on their side; embedders that want a
// one-shot signal use readingtime.Engine, which latches it.
func (h *Handler) respondSession(c *gin.Context, sess *readingtime.Session, initialized bool) {
	remaining := sess.Remaining()
	if remaining < 0 {
		remaining = 0
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"remaining_ms":        remaining,
		"remaining_formatted": readingtime.FormatRemaining(remaining),
		"limit_ms":            readingtime.Limit.Milliseconds(),
		"warning":             remaining > 0 && remaining <= readingtime.WarningThreshold.Milliseconds(),
		"expired":             remaining <= 0,
		"initialized":         initialized,
	}})
}

// sessionEvents streams a display-only countdown over SSE from the current
// session snapshot. It never persists: accrual stays with the sync path so
// a reader cannot be double-charged by keeping both open.
func (h *Handler) sessionEvents(c *gin.Context) {
	sess := readingtime.InitializeSession(h.keeper.Load(c.Request), h.Now().UnixMilli())
	remaining := sess.Remaining()
	if remaining < 0 {
		remaining = 0
	}

	ch := make(chan string)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(readingtime.TickInterval)
		defer ticker.Stop()
		for {
			payload, _ := json.Marshal(gin.H{
				"remaining_ms":        remaining,
				"remaining_formatted": readingtime.FormatRemaining(remaining),
				"warning":             remaining > 0 && remaining <= readingtime.WarningThreshold.Milliseconds(),
				"expired":             remaining <= 0,
			})
			select {
			case <-c.Request.Context().Done():
				return
			case ch <- string(payload):
			}
			if remaining <= 0 {
				return
			}
			select {
			case <-c.Request.Context().Done():
				return
			case <-ticker.C:
				remaining -= 1000
				if remaining < 0 {
					remaining = 0
				}
			}
		}
	}()
	sse.Stream(c, ch)
}
