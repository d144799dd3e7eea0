package textutil

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "hello world", want: "hello world"},
		{name: "mixed whitespace", in: "a\n\tb   c", want: "a b c"},
		{name: "leading and trailing", in: "  spaced out  ", want: "spaced out"},
		{name: "newlines only", in: "\n\n\n", want: ""},
		{name: "windows line endings", in: "one\r\ntwo", want: "one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "sa suffix", in: "TOTAL SA", want: "TOTAL"},
		{name: "lowercase suffix", in: "Total sa", want: "Total"},
		{name: "se suffix", in: "Airbus SE", want: "Airbus"},
		{name: "groupe prefix", in: "GROUPE Renault", want: "Renault"},
		{name: "scient abbreviation", in: "Dassault SCIENT. Systems", want: "Dassault Systems"},
		{name: "intl", in: "Pernod INTL Ricard", want: "Pernod Ricard"},
		{name: "act.a shares", in: "Vivendi ACT.A", want: "Vivendi"},
		{name: "no suffix untouched", in: "LVMH", want: "LVMH"},
		{name: "embedded letters not stripped", in: "Sanofi", want: "Sanofi"},
		{name: "only suffix becomes empty", in: "SA", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCompanyName(tt.in); got != tt.want {
				t.Errorf("CleanCompanyName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
