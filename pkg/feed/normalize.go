package feed

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	digitsOnly  = regexp.MustCompile(`^[0-9]+$`)
	nonDigit    = regexp.MustCompile(`[^0-9]`)
	percentExpr = regexp.MustCompile(`^[+-]?[0-9]+(?:\.[0-9]+)?%?$`)
)

// ParseCount converts a free-text counter ("1,234 views", "98765", "N/A")
// into a non-negative integer. Unparsable input is 0, never an error.
func ParseCount(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if !digitsOnly.MatchString(s) {
		s = nonDigit.ReplaceAllString(s, "")
	}
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Normalizer derives typed growth metrics from the free-text growth field.
type Normalizer struct {
	thresholds []GrowthThreshold
}

// NewNormalizer creates a normalizer with the given threshold ladder,
// ordered highest floor first.
func NewNormalizer(thresholds []GrowthThreshold) *Normalizer {
	if len(thresholds) == 0 {
		thresholds = DefaultGrowthThresholds()
	}
	return &Normalizer{thresholds: thresholds}
}

// growthVocabulary maps descriptive upstream terms to labels. Checked in
// order so "rising fast" wins over "rising".
var growthVocabulary = []struct {
	term  string
	label GrowthLabel
}{
	{"viral", GrowthViral},
	{"rising fast", GrowthHigh},
	{"rising", GrowthModerate},
	{"moderate", GrowthModerate},
	{"new", GrowthGrowing},
	{"stable", GrowthStable},
}

// GrowthRate parses the raw growth field. Numeric forms ("12.5%", "-3")
// yield a value plus a threshold-derived label. Descriptive forms map
// through the fixed vocabulary with no value. Anything else falls back to
// GrowthGrowing with no value; there is no failure state.
func (n *Normalizer) GrowthRate(raw string) (*float64, GrowthLabel) {
	s := strings.TrimSpace(raw)
	if percentExpr.MatchString(s) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err == nil {
			return &v, n.LabelFor(v)
		}
	}

	lower := strings.ToLower(s)
	for _, entry := range growthVocabulary {
		if strings.Contains(lower, entry.term) {
			return nil, entry.label
		}
	}

	return nil, GrowthGrowing
}

// LabelFor classifies a numeric growth value. Positive tiers come from the
// configured ladder; the sign-based tail (Growing/Stable/Declining) is
// fixed.
func (n *Normalizer) LabelFor(v float64) GrowthLabel {
	for _, t := range n.thresholds {
		if v >= t.Floor {
			return t.Label
		}
	}
	switch {
	case v > 0:
		return GrowthGrowing
	case v < 0:
		return GrowthDeclining
	default:
		return GrowthStable
	}
}
