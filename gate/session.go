package gate

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"plume-backend/readingtime"

	"github.com/gorilla/sessions"
)

// cookieName matches the original client's storage key so the free quota
// survives the migration.
const cookieName = "plume_dor_reading_session"

// SessionKeeper round-trips the reading session through a client-held
// cookie: the record stays client-side (single key, JSON shape
// {"startTime","elapsedTime","lastActiveTime"}) and the server only applies
// the timer rules. Last write wins; concurrent tabs may lose a tick.
type SessionKeeper struct {
	store *sessions.CookieStore
}

func NewSessionKeeper() *SessionKeeper {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret"
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path: "/",
		// Outlives the 24 h stale window so the stale rule, not cookie
		// expiry, decides resets.
		MaxAge:   int((2 * readingtime.StaleAfter).Seconds()),
		HttpOnly: true,
	}
	return &SessionKeeper{store: store}
}

// Load returns the persisted session or nil. Absence, decode failure and a
// corrupt payload all read as "no session".
func (k *SessionKeeper) Load(r *http.Request) *readingtime.Session {
	cs, err := k.store.Get(r, cookieName)
	if err != nil {
		return nil
	}
	raw, ok := cs.Values["session"].(string)
	if !ok || raw == "" {
		return nil
	}
	var s readingtime.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	return &s
}

// Save persists the session back into the cookie, best effort.
func (k *SessionKeeper) Save(r *http.Request, w http.ResponseWriter, s *readingtime.Session) {
	cs, err := k.store.Get(r, cookieName)
	if err != nil {
		// A stale/corrupt cookie still yields a usable new session.
		cs, _ = k.store.New(r, cookieName)
	}
	if cs == nil {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	cs.Values["session"] = string(data)
	if err := cs.Save(r, w); err != nil {
		log.Printf("[READING][cookie] save failed, continuing without persistence: %v", err)
	}
}
