package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Orion", "Orion"},
		{"  W3 OH  ", "W3_OH"},
		{"G29.96-0.02", "G29.96-0.02"},
		{"Sgr B2/N", "Sgr_B2-N"},
		{`"M17"?`, "M17"},
		{"a\t\tb", "a_b"},
		{"", "unnamed"},
		{"..", "unnamed"},
		{"??", "unnamed"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExportStem(t *testing.T) {
	if got := ExportStem("Sgr B2", "He"); got != "Sgr_B2_He" {
		t.Fatalf("unexpected stem %q", got)
	}
}
