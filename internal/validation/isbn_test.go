package validation

import "testing"

func TestIsISBN(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"0-306-40615-2", true},
		{"0306406152", true},
		{"123456789X", true},
		{"978-0-306-40615-7", true},
		{"9780306406157", true},
		{"978 0 306 40615 7", true},
		{"ISBN 978-0-306-40615-7", true},
		{"ISBN-10: 0-306-40615-2", true},
		{"978-0306406157", true},  // partial grouping
		{"03064-06152", true},     // partial grouping
		{"978-030640615-7", true}, // partial grouping
		{"0--306-40615-2", true},  // separators are ignored

		{"0-306-40615-3", false},     // bad check digit
		{"978-0-306-40615-8", false}, // bad check digit
		{"000-0-00-000000-0", false}, // no 978/979 prefix
		{"X123456789", false},        // X only allowed last
		{"0-306-40615", false},       // too few digits
		{"97803064061", false},       // too short
		{"", false},
	}
	for _, c := range cases {
		if got := IsISBN(c.in); got != c.want {
			t.Errorf("IsISBN(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
