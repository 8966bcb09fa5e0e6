package gate

import (
	"log"

	"plume-backend/config"
	"plume-backend/entitlement"
	"plume-backend/login"

	"github.com/gin-gonic/gin"
)

// Identity is the minimal projection of an authenticated caller.
type Identity struct {
	UserID int
	Email  string
}

// ProfileSource yields entitlement profiles; satisfied by entitlement.Cache.
type ProfileSource interface {
	ProfileByUserID(userID int) (*entitlement.Profile, error)
}

// Gate resolves the entitlement verdict for a request. It is the single
// place where authentication state, subscription tier and the billing flag
// meet; rendering surfaces only consume its output.
type Gate struct {
	profiles ProfileSource

	// billingEnabled is captured from the compiled-in config at
	// construction so every verdict in a process agrees on it.
	billingEnabled bool

	// identify resolves the caller from the request; replaceable in tests.
	identify func(c *gin.Context) *Identity
}

func New(profiles ProfileSource) *Gate {
	return &Gate{profiles: profiles, billingEnabled: config.BillingEnabled, identify: tokenIdentify}
}

func tokenIdentify(c *gin.Context) *Identity {
	user := login.CurrentUser(c)
	if user == nil {
		return nil
	}
	return &Identity{UserID: user.ID, Email: user.Email}
}

// profileStatus distinguishes a clean verdict from one computed on the
// conservative free-tier default after a fetch failure. Failure never
// resolves to open access.
const (
	statusReady    = "ready"
	statusDegraded = "degraded"
)

// Verdict evaluates the caller's entitlement. Overlay mirrors the caller's
// requested rendering mode. The returned status is statusDegraded when the
// profile lookup failed and the free tier was assumed.
func (g *Gate) Verdict(c *gin.Context, overlay bool) (entitlement.Decision, string) {
	in := entitlement.Input{
		BillingEnabled: g.billingEnabled,
		Overlay:        overlay,
	}
	status := statusReady

	ident := g.identify(c)
	if ident != nil {
		in.Authenticated = true
		profile, err := g.profiles.ProfileByUserID(ident.UserID)
		if err != nil {
			// Conservative default: free tier, never open access by failure.
			log.Printf("[GATE][degraded] user_id=%d profile fetch failed, assuming free tier: %v", ident.UserID, err)
			status = statusDegraded
		} else {
			in.Profile = profile
		}
	}

	d := entitlement.Evaluate(in)
	if ident != nil {
		log.Printf("[GATE][verdict] user_id=%d level=%s download=%t status=%s", ident.UserID, d.Level, d.CanDownload, status)
	} else {
		log.Printf("[GATE][verdict] anonymous level=%s download=%t", d.Level, d.CanDownload)
	}
	return d, status
}
