package feed

import "testing"

func TestParseCount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"plain digits", "98765", 98765},
		{"thousands separators", "1,234", 1234},
		{"trailing words", "1,234 views", 1234},
		{"spaces inside", " 12 345 ", 12345},
		{"not a number", "N/A", 0},
		{"empty", "", 0},
		{"symbols only", "--", 0},
		{"overflow", "99999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCount(tt.raw); got != tt.want {
				t.Errorf("ParseCount(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestGrowthRateNumeric(t *testing.T) {
	norm := NewNormalizer(nil)

	tests := []struct {
		raw   string
		value float64
		label GrowthLabel
	}{
		{"-15%", -15, GrowthDeclining},
		{"12.5%", 12.5, GrowthGrowing},
		{"+7", 7, GrowthGrowing},
		{"0", 0, GrowthStable},
		{"0%", 0, GrowthStable},
		{"15000", 15000, GrowthModerate},
		{"250000", 250000, GrowthHigh},
		{"1500000", 1500000, GrowthViral},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			value, label := norm.GrowthRate(tt.raw)
			if value == nil {
				t.Fatalf("GrowthRate(%q) value = nil, want %v", tt.raw, tt.value)
			}
			if *value != tt.value {
				t.Errorf("GrowthRate(%q) value = %v, want %v", tt.raw, *value, tt.value)
			}
			if label != tt.label {
				t.Errorf("GrowthRate(%q) label = %q, want %q", tt.raw, label, tt.label)
			}
		})
	}
}

func TestGrowthRateVocabulary(t *testing.T) {
	norm := NewNormalizer(nil)

	tests := []struct {
		raw   string
		label GrowthLabel
	}{
		{"Viral", GrowthViral},
		{"went viral overnight", GrowthViral},
		{"Rising Fast", GrowthHigh},
		{"rising", GrowthModerate},
		{"Moderate", GrowthModerate},
		{"new", GrowthGrowing},
		{"Stable", GrowthStable},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			value, label := norm.GrowthRate(tt.raw)
			if value != nil {
				t.Errorf("GrowthRate(%q) value = %v, want absent", tt.raw, *value)
			}
			if label != tt.label {
				t.Errorf("GrowthRate(%q) label = %q, want %q", tt.raw, label, tt.label)
			}
		})
	}
}

func TestGrowthRateFallbackLabel(t *testing.T) {
	norm := NewNormalizer(nil)

	for _, raw := range []string{"", "???", "12.5.3%", "trending data unavailable"} {
		value, label := norm.GrowthRate(raw)
		if value != nil {
			t.Errorf("GrowthRate(%q) value = %v, want absent", raw, *value)
		}
		if label != GrowthGrowing {
			t.Errorf("GrowthRate(%q) label = %q, want %q", raw, label, GrowthGrowing)
		}
	}
}

func TestLabelForCustomThresholds(t *testing.T) {
	norm := NewNormalizer([]GrowthThreshold{
		{Floor: 0.35, Label: GrowthViral},
		{Floor: 0.10, Label: GrowthHigh},
	})

	tests := []struct {
		value float64
		label GrowthLabel
	}{
		{0.5, GrowthViral},
		{0.2, GrowthHigh},
		{0.05, GrowthGrowing},
		{0, GrowthStable},
		{-0.1, GrowthDeclining},
	}

	for _, tt := range tests {
		if got := norm.LabelFor(tt.value); got != tt.label {
			t.Errorf("LabelFor(%v) = %q, want %q", tt.value, got, tt.label)
		}
	}
}
