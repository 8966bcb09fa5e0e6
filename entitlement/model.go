package entitlement

import "time"

type SubscriptionType string

const (
	SubscriptionFree    SubscriptionType = "free"
	SubscriptionPremium SubscriptionType = "premium"
)

// Valid reports whether t is a known tier.
func (t SubscriptionType) Valid() bool {
	return t == SubscriptionFree || t == SubscriptionPremium
}

// Profile is the entitlement tier record, exactly one per authenticated
// user. Created alongside registration with the free tier; mutated only by
// the admin tier change.
type Profile struct {
	ID                    string           `json:"id"`
	UserID                int              `json:"user_id"`
	Email                 string           `json:"email"`
	FullName              string           `json:"full_name"`
	SubscriptionType      SubscriptionType `json:"subscription_type"`
	SubscriptionUpdatedAt *time.Time       `json:"subscription_updated_at"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// Premium reports whether the profile carries the premium tier. A nil
// profile is treated identically to the free tier.
func (p *Profile) Premium() bool {
	return p != nil && p.SubscriptionType == SubscriptionPremium
}
