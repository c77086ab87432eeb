package webgl

import "testing"

func TestNativeName(t *testing.T) {
	names := map[string]string{
		"iTime":     "_uiTime",
		"lights":    "_ulights",
		"lights[0]": "_ulights_first",
	}
	tests := []struct{ in, want string }{
		{"iTime", "_uiTime"},
		{"lights[0]", "_ulights_first"},
		{"lights[3]", "_ulights[3]"},
		{"lights.color", "_ulights.color"},
		{"other", "other"},
		{"[0]", "[0]"},
	}
	for _, test := range tests {
		if got := nativeName(names, test.in); got != test.want {
			t.Errorf("nativeName(%q) = %q, want %q", test.in, got, test.want)
		}
	}
	if got := nativeName(nil, "iTime"); got != "iTime" {
		t.Errorf("nativeName with no map = %q", got)
	}
}
