package countdown

import "fmt"

// Tier is the urgency class used to color the bar.
type Tier int

const (
	TierNormal Tier = iota
	TierWarning
	TierDanger
	TierPaused
)

var tierNames = map[Tier]string{
	TierNormal:  "normal",
	TierWarning: "warning",
	TierDanger:  "danger",
	TierPaused:  "paused",
}

func (t Tier) String() string { return tierNames[t] }

// Blinks reports whether the tier pulses.
func (t Tier) Blinks() bool { return t == TierDanger }

// Thresholds are progress fractions at which the bar changes tier.
type Thresholds struct {
	Warning float64
	Danger  float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 0.6, Danger: 0.8}
}

// Validate checks 0 < Warning < Danger <= 1.
func (th Thresholds) Validate() error {
	if th.Warning <= 0 || th.Danger > 1 || th.Warning >= th.Danger {
		return fmt.Errorf("thresholds must satisfy 0 < warning < danger <= 1, got warning=%.2f danger=%.2f", th.Warning, th.Danger)
	}
	return nil
}

// Classify maps a progress fraction to a tier: [0,Warning) normal,
// [Warning,Danger) warning, [Danger,1] danger.
func (th Thresholds) Classify(progress float64) Tier {
	switch {
	case progress >= th.Danger:
		return TierDanger
	case progress >= th.Warning:
		return TierWarning
	}
	return TierNormal
}
