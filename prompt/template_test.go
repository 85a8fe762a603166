package prompt

import (
	"strings"
	"testing"

	"github.com/drivernote/drivernote/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		template     string
		wantErr      bool
		placeholders []string
	}{
		{
			name:         "literal only",
			template:     "Write the driver a note.",
			wantErr:      false,
			placeholders: nil,
		},
		{
			name:         "single placeholder",
			template:     "Conversation rate: {conv_rate}",
			wantErr:      false,
			placeholders: []string{"conv_rate"},
		},
		{
			name:         "multiple placeholders",
			template:     "{conv_rate} / {acc_rate} / {avg_daily_trips}",
			wantErr:      false,
			placeholders: []string{"conv_rate", "acc_rate", "avg_daily_trips"},
		},
		{
			name:         "repeated placeholder",
			template:     "{name} is {name}",
			wantErr:      false,
			placeholders: []string{"name", "name"},
		},
		{
			name:         "adjacent placeholders",
			template:     "{a}{b}",
			wantErr:      false,
			placeholders: []string{"a", "b"},
		},
		{
			name:         "braces without identifier pass through as literal",
			template:     "JSON uses {} and {0} literally",
			wantErr:      false,
			placeholders: nil,
		},
		{
			name:     "empty template",
			template: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.template)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}

			got := tmpl.Placeholders()
			if len(got) != len(tt.placeholders) {
				t.Fatalf("Placeholders() = %v, want %v", got, tt.placeholders)
			}
			for i, p := range got {
				if p != tt.placeholders[i] {
					t.Errorf("placeholder[%d] = %v, want %v", i, p, tt.placeholders[i])
				}
			}
		})
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]any
		want     string
	}{
		{
			name:     "string value",
			template: "Hello {name}",
			vars:     map[string]any{"name": "driver"},
			want:     "Hello driver",
		},
		{
			name:     "float renders with full precision",
			template: "rate: {conv_rate}",
			vars:     map[string]any{"conv_rate": 0.4745151400566101},
			want:     "rate: 0.4745151400566101",
		},
		{
			name:     "small float keeps all digits",
			template: "rate: {acc_rate}",
			vars:     map[string]any{"acc_rate": 0.055561766028404236},
			want:     "rate: 0.055561766028404236",
		},
		{
			name:     "int64 value",
			template: "trips: {avg_daily_trips}",
			vars:     map[string]any{"avg_daily_trips": int64(936)},
			want:     "trips: 936",
		},
		{
			name:     "bool value",
			template: "active: {active}",
			vars:     map[string]any{"active": true},
			want:     "active: true",
		},
		{
			name:     "nil renders empty",
			template: "rate: {conv_rate}!",
			vars:     map[string]any{"conv_rate": nil},
			want:     "rate: !",
		},
		{
			name:     "extra vars are ignored",
			template: "just {a}",
			vars:     map[string]any{"a": "this", "b": "not this"},
			want:     "just this",
		},
		{
			name:     "multiline template",
			template: "line one: {a}\nline two: {b}",
			vars:     map[string]any{"a": int64(1), "b": int64(2)},
			want:     "line one: 1\nline two: 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.template)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got, err := tmpl.Execute(tt.vars)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Execute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteMissingKey(t *testing.T) {
	tmpl, err := Parse("rate: {conv_rate}, trips: {avg_daily_trips}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = tmpl.Execute(map[string]any{"conv_rate": 0.5})
	if err == nil {
		t.Fatal("Execute() with missing key should return error")
	}
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("error = %v, want ErrMissingKey", err)
	}
	if !strings.Contains(err.Error(), "avg_daily_trips") {
		t.Errorf("error %q should name the missing key", err.Error())
	}
}

// Any proper subset of the required keys must fail; only the full set
// renders.
func TestExecuteMissingKeySubsets(t *testing.T) {
	tmpl, err := Parse("{a} {b} {c}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	full := map[string]any{"a": "1", "b": "2", "c": "3"}

	subsets := []map[string]any{
		{},
		{"a": "1"},
		{"b": "2"},
		{"c": "3"},
		{"a": "1", "b": "2"},
		{"a": "1", "c": "3"},
		{"b": "2", "c": "3"},
	}

	for i, vars := range subsets {
		if _, err := tmpl.Execute(vars); !errors.Is(err, ErrMissingKey) {
			t.Errorf("subset %d: error = %v, want ErrMissingKey", i, err)
		}
	}

	got, err := tmpl.Execute(full)
	if err != nil {
		t.Fatalf("Execute(full) error = %v", err)
	}
	if got != "1 2 3" {
		t.Errorf("Execute(full) = %q", got)
	}
}

func TestExecuteEmptyVars(t *testing.T) {
	tmpl, err := Parse("no placeholders here")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, err := tmpl.Execute(nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "no placeholders here" {
		t.Errorf("Execute() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("valid {template}"); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := Validate(""); err == nil {
		t.Error("Validate(\"\") should return error")
	}
}

func TestRaw(t *testing.T) {
	raw := "stats for {driver}"
	tmpl, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tmpl.Raw() != raw {
		t.Errorf("Raw() = %q, want %q", tmpl.Raw(), raw)
	}
}
