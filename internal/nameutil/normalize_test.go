package nameutil

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jane", "Jane"},
		{"Jiří", "Jiri"},
		{"café", "cafe"},
		{"naïve", "naive"},
		{"Žluťoučký kůň", "Zlutoucky kun"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := RemoveDiacritics(tt.input)
			if result != tt.expected {
				t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jane Doe", "jane doe"},
		{"jane-doe", "jane doe"},
		{"JAN NOVÁK", "jan novak"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		matches bool
	}{
		{"Jane Doe", "jane", true},
		{"Jane Doe", "DOE", true},
		{"Jiří Novák", "jiri", true},
		{"Jane Doe", "", true},
		{"Jane Doe", "smith", false},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.query, func(t *testing.T) {
			if got := Matches(tt.name, tt.query); got != tt.matches {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.name, tt.query, got, tt.matches)
			}
		})
	}
}
