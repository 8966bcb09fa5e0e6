package config

// Billing feature flag for app-store compliance.
//
// When BillingEnabled is false all premium/payment UI is suppressed and the
// product behaves as 100% free: the entitlement evaluator grants full access
// to every caller and no monetization references are sent to clients. The
// subscription tier model underneath stays intact so flipping the flag back
// does not require a data migration.
//
// These values are compiled in on purpose: changing them requires a new
// deployment, never a runtime mutation.
const (
	// BillingEnabled is the master switch for monetization features.
	// Keep false for store submissions that reject external payment references.
	BillingEnabled = false

	// ComingSoonMessage is the neutral message shown in place of premium UI
	// while billing is disabled.
	ComingSoonMessage = "Certaines fonctionnalités avancées seront disponibles prochainement."

	// PlayStoreProductPremium is a placeholder product id for a future
	// in-app purchase integration. Unused by the access logic; pass-through.
	PlayStoreProductPremium = "premium_subscription"
)

// HidePremiumUI reports whether clients should hide all premium surfaces.
func HidePremiumUI() bool {
	return !BillingEnabled
}
