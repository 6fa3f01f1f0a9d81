package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+12125551234",
			want:  "+12125551234",
		},
		{
			name:  "with spaces",
			input: "+1 212 555 1234",
			want:  "+12125551234",
		},
		{
			name:  "with parentheses and dashes",
			input: "(212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +12125551234  ",
			want:  "+12125551234",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "garbage input",
			input: "not a phone",
			want:  "",
		},
		{
			name:  "too short",
			input: "555",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
