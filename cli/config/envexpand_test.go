package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("FORMWIRE_SET", "value")
	t.Setenv("FORMWIRE_EMPTY", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no patterns", "plain text", "plain text"},
		{"set variable", "x: ${FORMWIRE_SET}", "x: value"},
		{"unset variable", "x: ${FORMWIRE_UNSET}", "x: "},
		{"unset with default", "x: ${FORMWIRE_UNSET:-fallback}", "x: fallback"},
		{"set ignores default", "x: ${FORMWIRE_SET:-fallback}", "x: value"},
		{"empty uses default", "x: ${FORMWIRE_EMPTY:-fallback}", "x: fallback"},
		{"multiple patterns", "${FORMWIRE_SET}/${FORMWIRE_UNSET:-d}", "value/d"},
		{"bare dollar untouched", "$FORMWIRE_SET", "$FORMWIRE_SET"},
		{"default with url", "${FORMWIRE_UNSET:-redis://localhost:6379}", "redis://localhost:6379"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
