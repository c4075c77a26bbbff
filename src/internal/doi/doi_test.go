package doi

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"10.1000/xyz123":                    "10.1000/xyz123",
		"https://doi.org/10.1000/xyz123":    "10.1000/xyz123",
		"http://doi.org/10.1000/xyz123":     "10.1000/xyz123",
		"https://dx.doi.org/10.1000/xyz123": "10.1000/xyz123",
		"http://dx.doi.org/10.1000/xyz123":  "10.1000/xyz123",
		"dx.doi.org/10.1000/xyz123":         "10.1000/xyz123",
		"doi.org/10.1000/xyz123":            "10.1000/xyz123",
		"":                                  "",
		"not a doi":                         "not a doi",
		// only leading prefixes are stripped
		"10.1000/https://x": "10.1000/https://x",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestNormalize_DXThenDOIOrg(t *testing.T) {
	// "dx." fires, then "doi.org/" fires on what remains
	if got := Normalize("dx.doi.org/10.1000/xyz123"); got != "10.1000/xyz123" {
		t.Fatalf("chained strip: got %q", got)
	}
	if got := Normalize("dx.10.1000/xyz123"); got != "10.1000/xyz123" {
		t.Fatalf("dx only: got %q", got)
	}
}

func TestNormalize_SinglePass(t *testing.T) {
	// each rule is applied at most once
	if got := Normalize("https://https://doi.org/10.1/x"); got != "https://doi.org/10.1/x" {
		t.Fatalf("double scheme: got %q", got)
	}
	// https is checked before http, so http after https is also stripped
	if got := Normalize("https://http://10.1/x"); got != "10.1/x" {
		t.Fatalf("https then http: got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	schemes := []string{"", "https://", "http://"}
	hosts := []string{"", "dx.", "doi.org/", "dx.doi.org/"}
	for _, s := range schemes {
		for _, h := range hosts {
			raw := s + h + "10.1000/xyz123"
			once := Normalize(raw)
			if twice := Normalize(once); twice != once {
				t.Fatalf("not idempotent for %q: %q then %q", raw, once, twice)
			}
			if once != "10.1000/xyz123" {
				t.Fatalf("Normalize(%q) = %q", raw, once)
			}
		}
	}
}

func TestLooksValid(t *testing.T) {
	if !LooksValid("10.1234/abc.def") {
		t.Fatalf("expected valid")
	}
	for _, s := range []string{"", "10.1234/", "11.1234/abc", "10.1234abcdef", "10./abcdefg"} {
		if LooksValid(s) {
			t.Fatalf("LooksValid(%q): expected false", s)
		}
	}
}

func TestFind(t *testing.T) {
	text := "Journal of Things, vol 3. https://doi.org/10.1021/acs.jpcc.5b01234. Received 2015"
	if got := Find(text); got != "10.1021/acs.jpcc.5b01234" {
		t.Fatalf("Find: got %q", got)
	}
	if got := Find("no identifier here"); got != "" {
		t.Fatalf("Find empty: got %q", got)
	}
}
