package language

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "", true},
		{"en", "en", true},
		{"EN", "en", true},
		{"eng", "en", true},
		{"english", "en", true},
		{"French", "fr", true},
		{"fre", "fr", true},
		{"deu", "de", true},
		{"ger", "de", true},
		{"pt-BR", "pt", true},
		{"zh", "zh", true},
		{"chi", "zh", true},
		{"xx", "xx", true}, // unknown 2-letter codes pass through
		{"klingon", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Normalize(tc.in)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Normalize(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "Auto"},
		{"en", "English"},
		{"jpn", "Japanese"},
		{"french", "French"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.in); got != tc.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToISO3(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "und"},
		{"en", "eng"},
		{"fr", "fra"},
		{"fre", "fra"},
		{"xyz", "xyz"},
		{"q", "und"},
	}
	for _, tc := range cases {
		if got := ToISO3(tc.in); got != tc.want {
			t.Fatalf("ToISO3(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
