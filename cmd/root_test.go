package cmd

import "testing"

func TestResolveLogLevel(t *testing.T) {
	cases := []struct {
		name        string
		flagSet     bool
		flagLevel   string
		configLevel string
		want        string
	}{
		{"flag wins when set", true, "debug", "warn", "debug"},
		{"config fallback when flag unset", false, "info", "warn", "warn"},
		{"flag default when config empty", false, "info", "", "info"},
	}

	for _, tc := range cases {
		if got := resolveLogLevel(tc.flagSet, tc.flagLevel, tc.configLevel); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
