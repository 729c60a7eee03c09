package prompt

import (
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]any
		want     string
		wantErr  bool
	}{
		{
			name:     "scalar substitution",
			template: "Goal: {{ goal }}",
			vars:     map[string]any{"goal": "Build an MVP"},
			want:     "Goal: Build an MVP",
		},
		{
			name:     "repeated placeholder",
			template: "{{ name }} and {{ name }}",
			vars:     map[string]any{"name": "Konrad"},
			want:     "Konrad and Konrad",
		},
		{
			name:     "map subscript",
			template: "Facilitator for {{ role['name'] }} ({{ role['title'] }})",
			vars:     map[string]any{"role": map[string]string{"name": "Eike", "title": "General Consultant"}},
			want:     "Facilitator for Eike (General Consultant)",
		},
		{
			name:     "json decoded subscript",
			template: "{{ role['name'] }}",
			vars:     map[string]any{"role": map[string]any{"name": "Konrad"}},
			want:     "Konrad",
		},
		{
			name:     "missing variable",
			template: "Goal: {{ goal }}",
			vars:     map[string]any{},
			wantErr:  true,
		},
		{
			name:     "subscript on string keeps placeholder",
			template: "{{ role['name'] }}",
			vars:     map[string]any{"role": "{'name': 'John'}"},
			want:     "{{ role['name'] }}",
		},
		{
			name:     "whitespace tolerant",
			template: "{{goal}} / {{  goal  }}",
			vars:     map[string]any{"goal": "x"},
			want:     "x / x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.template, tt.vars)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Render() expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	template := "{{ goal }} {{ role['name'] }} {{ goal }} {{ contributions_text }}"
	got := Placeholders(template)

	want := []string{"goal", "role", "contributions_text"}
	if len(got) != len(want) {
		t.Fatalf("Placeholders() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Placeholders()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   `{"action": "LOG_ONLY"}`,
			want: `{"action": "LOG_ONLY"}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"action\": \"SYNTHESIZE\"}\n```",
			want: `{"action": "SYNTHESIZE"}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n```json\n{}\n```\n  ",
			want: "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence() = %q, want %q", got, tt.want)
			}
		})
	}
}
