package rating

// KFactor computes the per-player update weight from experience and strength.
// Experience tiers take precedence; rating tiers only apply to established
// players.
type KFactor struct {
	Base                 float64 `json:"base"`
	NewPlayerMatches     int     `json:"new_player_matches"`
	NewPlayerMultiplier  float64 `json:"new_player_multiplier"`
	DevelopingMatches    int     `json:"developing_matches"`
	DevelopingMultiplier float64 `json:"developing_multiplier"`
	EliteRating          float64 `json:"elite_rating"`
	EliteMultiplier      float64 `json:"elite_multiplier"`
	StrongRating         float64 `json:"strong_rating"`
	StrongMultiplier     float64 `json:"strong_multiplier"`
}

// DefaultKFactor returns K=32 with the standard tiers
func DefaultKFactor() KFactor {
	return KFactor{
		Base:                 32,
		NewPlayerMatches:     30,
		NewPlayerMultiplier:  1.5,
		DevelopingMatches:    100,
		DevelopingMultiplier: 1.2,
		EliteRating:          2000,
		EliteMultiplier:      0.8,
		StrongRating:         1800,
		StrongMultiplier:     0.9,
	}
}

// For returns K for a player with matchesPlayed prior matches and the given
// surface rating.
func (k KFactor) For(matchesPlayed int, rating float64) float64 {
	switch {
	case matchesPlayed < k.NewPlayerMatches:
		return k.Base * k.NewPlayerMultiplier
	case matchesPlayed < k.DevelopingMatches:
		return k.Base * k.DevelopingMultiplier
	case rating > k.EliteRating:
		return k.Base * k.EliteMultiplier
	case rating > k.StrongRating:
		return k.Base * k.StrongMultiplier
	default:
		return k.Base
	}
}

// Fixed returns a KFactor that ignores experience and strength
func Fixed(k float64) KFactor {
	return KFactor{
		Base:                 k,
		NewPlayerMultiplier:  1,
		DevelopingMultiplier: 1,
		EliteMultiplier:      1,
		StrongMultiplier:     1,
	}
}
