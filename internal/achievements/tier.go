package achievements

// Tier is an achievement's difficulty tier.
type Tier string

const (
	TierCommon    Tier = "common"
	TierRare      Tier = "rare"
	TierEpic      Tier = "epic"
	TierLegendary Tier = "legendary"
)

// AllTiers returns all tiers from lowest to highest.
func AllTiers() []Tier {
	return []Tier{TierCommon, TierRare, TierEpic, TierLegendary}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierCommon:
		return "Common"
	case TierRare:
		return "Rare"
	case TierEpic:
		return "Epic"
	case TierLegendary:
		return "Legendary"
	default:
		return string(t)
	}
}

// Icon returns the display icon for the tier.
func (t Tier) Icon() string {
	switch t {
	case TierRare:
		return "🔷"
	case TierEpic:
		return "💠"
	case TierLegendary:
		return "👑"
	default:
		return "✦"
	}
}
