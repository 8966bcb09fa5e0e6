package entitlement

// AccessLevel is the verdict of the evaluator.
type AccessLevel string

const (
	// FullAccess: full content and download permitted.
	FullAccess AccessLevel = "full"
	// PreviewOnly: a fixed leading fraction of the content is rendered
	// (obscured full content beneath an upsell overlay); download blocked.
	PreviewOnly AccessLevel = "preview"
	// LockedMessage: no content, only an upsell/coming-soon message.
	LockedMessage AccessLevel = "locked"
	// Fallback: the caller supplied its own rendering; defer to it.
	Fallback AccessLevel = "fallback"
)

// PreviewFraction is the share of a document rendered under PreviewOnly.
const PreviewFraction = 0.20

// Input for one evaluation. Absence of a profile is treated identically to
// the free tier.
type Input struct {
	Authenticated  bool
	Profile        *Profile
	BillingEnabled bool
	// HasFallback is set when the caller supplied a component-level
	// fallback rendering.
	HasFallback bool
	// Overlay is set when the caller requested overlay mode.
	Overlay bool
}

// Decision is a pure function result: no hidden state, no side effects.
type Decision struct {
	Level           AccessLevel `json:"level"`
	CanDownload     bool        `json:"can_download"`
	PreviewFraction float64     `json:"preview_fraction,omitempty"`
	Message         string      `json:"message,omitempty"`
}

// Evaluate maps (authentication state, subscription tier, billing flag) to
// an access decision. Precedence order is the business rule and must not be
// reordered:
//
//  1. billing disabled     -> FullAccess for everyone
//  2. premium tier         -> FullAccess
//  3. caller fallback      -> defer to caller
//  4. overlay requested    -> PreviewOnly
//  5. otherwise            -> LockedMessage
//
// Download permission exactly mirrors FullAccess; it is never granted under
// PreviewOnly or LockedMessage.
func Evaluate(in Input) Decision {
	if !in.BillingEnabled {
		return Decision{Level: FullAccess, CanDownload: true}
	}
	if in.Profile.Premium() {
		return Decision{Level: FullAccess, CanDownload: true}
	}
	if in.HasFallback {
		return Decision{Level: Fallback}
	}
	if in.Overlay {
		return Decision{
			Level:           PreviewOnly,
			PreviewFraction: PreviewFraction,
			Message:         lockMessage(in.Authenticated),
		}
	}
	return Decision{Level: LockedMessage, Message: lockMessage(in.Authenticated)}
}

func lockMessage(authenticated bool) string {
	if authenticated {
		return "Passez à Premium pour accéder à ce contenu et profiter de tous les avantages."
	}
	return "Connectez-vous et passez à Premium pour accéder à ce contenu."
}
