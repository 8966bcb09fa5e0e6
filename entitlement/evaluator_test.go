package entitlement

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func premiumProfile() *Profile {
	return &Profile{UserID: 1, SubscriptionType: SubscriptionPremium}
}

func freeProfile() *Profile {
	return &Profile{UserID: 2, SubscriptionType: SubscriptionFree}
}

func TestEvaluateBillingDisabledOpensEverything(t *testing.T) {
	// The coming-soon phase: every visitor reads and downloads freely,
	// whatever else the input carries.
	inputs := []Input{
		{},
		{Authenticated: true, Profile: freeProfile()},
		{Authenticated: true, Profile: premiumProfile()},
		{Overlay: true},
		{HasFallback: true},
		{Authenticated: true, Profile: freeProfile(), Overlay: true, HasFallback: true},
	}
	for _, in := range inputs {
		d := Evaluate(in)
		require.Equal(t, FullAccess, d.Level, "input=%+v", in)
		require.True(t, d.CanDownload, "input=%+v", in)
		require.Empty(t, d.Message, "input=%+v", in)
	}
}

func TestEvaluatePremiumBeatsFallbackAndOverlay(t *testing.T) {
	d := Evaluate(Input{
		Authenticated:  true,
		Profile:        premiumProfile(),
		BillingEnabled: true,
		HasFallback:    true,
		Overlay:        true,
	})
	require.Equal(t, FullAccess, d.Level)
	require.True(t, d.CanDownload)
}

func TestEvaluateFallbackDefersToCaller(t *testing.T) {
	d := Evaluate(Input{
		Authenticated:  true,
		Profile:        freeProfile(),
		BillingEnabled: true,
		HasFallback:    true,
		Overlay:        true,
	})
	require.Equal(t, Fallback, d.Level)
	require.False(t, d.CanDownload)
	require.Empty(t, d.Message)
}

func TestEvaluateOverlayYieldsPreview(t *testing.T) {
	d := Evaluate(Input{
		Authenticated:  true,
		Profile:        freeProfile(),
		BillingEnabled: true,
		Overlay:        true,
	})
	require.Equal(t, PreviewOnly, d.Level)
	require.False(t, d.CanDownload)
	require.Equal(t, PreviewFraction, d.PreviewFraction)
	require.Contains(t, d.Message, "Premium")
}

func TestEvaluateDefaultIsLocked(t *testing.T) {
	d := Evaluate(Input{Authenticated: true, Profile: freeProfile(), BillingEnabled: true})
	require.Equal(t, LockedMessage, d.Level)
	require.False(t, d.CanDownload)
	require.Contains(t, d.Message, "Premium")
}

func TestEvaluateLockMessageDependsOnAuthentication(t *testing.T) {
	anon := Evaluate(Input{BillingEnabled: true})
	require.Equal(t, LockedMessage, anon.Level)
	require.Contains(t, anon.Message, "Connectez-vous")

	authed := Evaluate(Input{Authenticated: true, Profile: freeProfile(), BillingEnabled: true})
	require.NotContains(t, authed.Message, "Connectez-vous")
}

func TestEvaluateNilProfileIsFreeTier(t *testing.T) {
	withNil := Evaluate(Input{Authenticated: true, BillingEnabled: true, Overlay: true})
	withFree := Evaluate(Input{Authenticated: true, Profile: freeProfile(), BillingEnabled: true, Overlay: true})
	require.Equal(t, withFree, withNil)
}

func drawInput(t *rapid.T) Input {
	var profile *Profile
	switch rapid.IntRange(0, 2).Draw(t, "profile") {
	case 1:
		profile = freeProfile()
	case 2:
		profile = premiumProfile()
	}
	return Input{
		Authenticated:  rapid.Bool().Draw(t, "authenticated"),
		Profile:        profile,
		BillingEnabled: rapid.Bool().Draw(t, "billing"),
		HasFallback:    rapid.Bool().Draw(t, "fallback"),
		Overlay:        rapid.Bool().Draw(t, "overlay"),
	}
}

func TestDownloadMirrorsFullAccess(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := Evaluate(drawInput(t))
		require.Equal(t, d.Level == FullAccess, d.CanDownload)
	})
}

func TestPreviewFractionOnlyUnderPreview(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := Evaluate(drawInput(t))
		if d.Level == PreviewOnly {
			require.Equal(t, PreviewFraction, d.PreviewFraction)
		} else {
			require.Zero(t, d.PreviewFraction)
		}
	})
}

func TestEvaluateIsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := drawInput(t)
		require.Equal(t, Evaluate(in), Evaluate(in))
	})
}
