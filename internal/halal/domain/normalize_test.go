package domain

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Pork Gelatin  ", "porkgelatin"},
		{"Soy\tLecithin\n", "soylecithin"},
		{"ＧＥＬＡＴＩＮ", "gelatin"}, // full-width folds under NFKC
		{"돼지 지방", "돼지지방"}, // Hangul kept, space removed
		{"E\u00a0471", "e471"}, // no-break space
		{"Vitamin B12 0.5%", "vitaminb120.5%"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeywordMatch(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    bool
	}{
		{"substring", "porkgelatin", "Pork", true},
		{"keyword with spaces", "porkgelatin", "pork gelatin", true},
		{"no match", "soylecithin", "pork", false},
		{"empty keyword", "anything", "", false},
		{"blank keyword", "anything", "   ", false},
		{"single char equal", "소", "소", true},
		{"single char contained only", "소고기", "소", false},
		{"single ascii char", "salt", "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordMatch(tt.text, tt.keyword); got != tt.want {
				t.Fatalf("KeywordMatch(%q, %q) = %v, want %v", tt.text, tt.keyword, got, tt.want)
			}
		})
	}
}
