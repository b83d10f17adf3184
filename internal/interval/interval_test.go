package interval

import "testing"

func TestSeconds(t *testing.T) {
	cases := []struct {
		name string
		want int64
	}{
		{Hour, 3600},
		{Day, 86400},
		{Week, 604800},
		{Month, 2678400},
		{Quarter, 7948800},
		{Year, 31622400},
	}

	for _, tc := range cases {
		if got := Seconds(tc.name); got != tc.want {
			t.Errorf("Seconds(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSecondsDefaultsToHour(t *testing.T) {
	if got := Seconds(""); got != 3600 {
		t.Errorf("Seconds(\"\") = %d, want 3600", got)
	}
	if got := Seconds("fortnight"); got != 3600 {
		t.Errorf("Seconds(\"fortnight\") = %d, want 3600", got)
	}
}

func TestValid(t *testing.T) {
	for _, name := range []string{"", Hour, Day, Week, Month, Quarter, Year} {
		if !Valid(name) {
			t.Errorf("Valid(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"fortnight", "minute", "HOUR"} {
		if Valid(name) {
			t.Errorf("Valid(%q) = true, want false", name)
		}
	}
}
