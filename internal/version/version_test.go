package version

import (
	"strings"
	"testing"
)

func TestAccessorsMatchInfo(t *testing.T) {
	v, c, d := Info()

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"version", GetVersion(), v},
		{"commit", GetCommit(), c},
		{"date", GetDate(), d},
	}

	for _, tc := range cases {
		if tc.got == "" {
			t.Errorf("%s should not be empty", tc.name)
		}
		if tc.got != tc.want {
			t.Errorf("%s accessor (%s) should match Info (%s)", tc.name, tc.got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, part := range []string{"version=", "commit=", "date="} {
		if !strings.Contains(s, part) {
			t.Errorf("String should contain %q, got %q", part, s)
		}
	}
}
