package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Jane Doe  ",
			want:  "Jane Doe",
		},
		{
			name:  "multiple spaces between words",
			input: "Jane    Doe",
			want:  "Jane Doe",
		},
		{
			name:  "tabs and newlines",
			input: "Jane\t\nDoe",
			want:  "Jane Doe",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " O'Brien-Smith ",
			want:  "O'Brien-Smith",
		},
		{
			name:  "non-latin characters",
			input: " José García ",
			want:  "José García",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase unchanged",
			input: "jane@example.com",
			want:  "jane@example.com",
		},
		{
			name:  "mixed case folded",
			input: "Jane.Doe@Example.COM",
			want:  "jane.doe@example.com",
		},
		{
			name:  "surrounding whitespace",
			input: "  jane@example.com  ",
			want:  "jane@example.com",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEmail(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
