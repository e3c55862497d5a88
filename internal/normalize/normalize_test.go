package normalize

import "testing"

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"São Paulo", "sao paulo"},
		{"Crônicas de Nárnia", "cronicas de narnia"},
		{"MACHADO DE ASSIS", "machado de assis"},
		{"already plain", "already plain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Fold(tc.in); got != tc.want {
			t.Errorf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
