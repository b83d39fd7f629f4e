package validation

import "testing"

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		valid bool
	}{
		{name: "simple", input: "5", want: 5, valid: true},
		{name: "surrounding spaces", input: " 12 ", want: 12, valid: true},
		{name: "plus sign", input: "+3", want: 3, valid: true},
		{name: "zero", input: "0", valid: false},
		{name: "negative", input: "-1", valid: false},
		{name: "empty", input: "", valid: false},
		{name: "blank", input: "   ", valid: false},
		{name: "letters", input: "abc", valid: false},
		{name: "decimal", input: "2.5", valid: false},
		{name: "overflow", input: "99999999999999999999", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePositiveInt(tt.input)
			if ok != tt.valid {
				t.Fatalf("ParsePositiveInt(%q) ok = %v, want %v", tt.input, ok, tt.valid)
			}
			if ok && got != tt.want {
				t.Fatalf("ParsePositiveInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
