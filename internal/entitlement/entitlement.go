// Package entitlement is the single place where subscription tiers are mapped
// to numeric limits and feature flags. Everything tier-dependent in the
// application must consult this package instead of branching on the tier
// string directly.
package entitlement

// Tier is the subscription level of an expert account.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Feature is a premium capability that can be switched per tier.
type Feature string

const (
	FeatureWantRegistration Feature = "wantRegistration"
	FeatureSpecialOffers    Feature = "specialOffers"
	FeatureAwayStatus       Feature = "awayStatus"
)

// Limits holds the numeric ceilings for a tier.
type Limits struct {
	MaxBooks      int
	MaxSpotlights int
}

var limitsByTier = map[Tier]Limits{
	TierFree:    {MaxBooks: 35, MaxSpotlights: 1},
	TierPremium: {MaxBooks: 150, MaxSpotlights: 3},
}

var featuresByTier = map[Tier]map[Feature]bool{
	TierFree: {},
	TierPremium: {
		FeatureWantRegistration: true,
		FeatureSpecialOffers:    true,
		FeatureAwayStatus:       true,
	},
}

// LimitsFor returns the book and spotlight ceilings for the given tier.
// Unknown tiers fall back to the free limits.
func LimitsFor(tier Tier) Limits {
	if limits, ok := limitsByTier[tier]; ok {
		return limits
	}
	return limitsByTier[TierFree]
}

// Enabled reports whether the given feature is available on the given tier.
func Enabled(tier Tier, feature Feature) bool {
	return featuresByTier[tier][feature]
}
