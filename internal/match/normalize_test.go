package match

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ten  Zaru   Udon!!", "ten-zaru-udon"},
		{"ten-zaru-udon", "ten-zaru-udon"},
		{"  Ebi Tempura  ", "ebi-tempura"},
		{"Chicken, Katsu (Large)", "chicken-katsu-large"},
		{"", ""},
		{"   ", ""},
		{"MISO SOUP", "miso-soup"},
	}

	for _, c := range cases {
		got := Normalize(c.in)
		if got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Ten  Zaru   Udon!!", "Ebi & Tempura", "P011 special", "a.b.c"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestExtractNameFromFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"P011 Ten Zaru Udon.jpg", "Ten Zaru Udon"},
		{"P011   Ten Zaru Udon.jpeg", "Ten Zaru Udon"},
		{"Ten Zaru Udon.png", "Ten Zaru Udon"},
		// no extension
		{"P011 Ten Zaru Udon", "Ten Zaru Udon"},
		// prefix only counts at the very start
		{"Ten Zaru P011 Udon.jpg", "Ten Zaru P011 Udon"},
		// code without trailing space is part of the name
		{"P011TenZaru.jpg", "P011TenZaru"},
		// only the final extension is stripped
		{"ten.zaru.udon.jpg", "ten.zaru.udon"},
	}

	for _, c := range cases {
		got := ExtractNameFromFilename(c.in)
		if got != c.want {
			t.Fatalf("ExtractNameFromFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
