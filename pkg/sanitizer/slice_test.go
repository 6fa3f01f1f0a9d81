package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeStringSlice(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "nil input",
			input: nil,
			want:  nil,
		},
		{
			name:  "empty slice",
			input: []string{},
			want:  nil,
		},
		{
			name:  "trims and keeps order",
			input: []string{" addon-1 ", "addon-2"},
			want:  []string{"addon-1", "addon-2"},
		},
		{
			name:  "drops empties",
			input: []string{"addon-1", "", "   "},
			want:  []string{"addon-1"},
		},
		{
			name:  "dedupes after normalization",
			input: []string{"addon-1", " addon-1", "addon-1  "},
			want:  []string{"addon-1"},
		},
		{
			name:  "all empty collapses to nil",
			input: []string{"", "  ", "\t"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeStringSlice(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeStringSlice(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
