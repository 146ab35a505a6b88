package usecase

import "testing"

func TestParseHeight(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{`6' 8"`, 80, true},
		{"6-8", 80, true},
		{"5'11\"", 71, true},
		{"1.98", 198, true},
		{"2.06 m", 206, true},
		{"211 cm", 211, true},
		{"tall", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseHeight(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseHeight(%q) = %d, %t; want %d, %t", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseWeight(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"75 kg", 75, true},
		{"165 lbs", 165, true},
		{"98", 98, true},
		{"unknown", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseWeight(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseWeight(%q) = %d, %t; want %d, %t", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDeriveTeamCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Lakers", "LAK"},
		{"Los Angeles Lakers", "LAL"},
		{"Oklahoma City Thunder Blue Crew", "OCTB"},
		{"Heat", "HEA"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := deriveTeamCode(tc.in); got != tc.want {
			t.Errorf("deriveTeamCode(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestPersonNamesLikelyMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		target    string
		candidate string
		want      bool
	}{
		{"LeBron James", "LEBRON JAMES", true},
		{"LeBron James", "L. James", true},
		{"C.J. McCollum", "CJ McCollum", true},
		{"LeBron James", "Anthony Davis", false},
		{"LeBron James", "", false},
	}
	for _, tc := range cases {
		if got := personNamesLikelyMatch(tc.target, tc.candidate); got != tc.want {
			t.Errorf("personNamesLikelyMatch(%q, %q) = %t; want %t", tc.target, tc.candidate, got, tc.want)
		}
	}
}

func TestTeamNamesLikelyMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		target    string
		candidate string
		location  string
		want      bool
	}{
		{"Ohio State", "Ohio St", "", true},
		{"Ohio St.", "Ohio State", "", true},
		{"Michigan State Spartans", "Michigan St", "", true},
		{"Duke Blue Devils", "Blue Devils", "Duke", true},
		{"Ohio State", "Iowa State", "", false},
	}
	for _, tc := range cases {
		if got := teamNamesLikelyMatch(tc.target, tc.candidate, tc.location); got != tc.want {
			t.Errorf("teamNamesLikelyMatch(%q, %q, %q) = %t; want %t", tc.target, tc.candidate, tc.location, got, tc.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Los Angeles Lakers", "los-angeles-lakers"},
		{"St. John's (NY)", "st-john-s-ny"},
		{"  LeBron   James ", "lebron-james"},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
