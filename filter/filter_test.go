package filter

import (
	"errors"
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `Provider == "www.google.com"`,
			wantErr:    false,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `includes(Identifier, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "non-boolean result",
			expression: `PrimaryKey`,
			wantErr:    true,
		},
		{
			name:       "unknown variable",
			expression: `Year > 2020`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasPrefix(Identifier, "https://") and (PrimaryKey == "42" or hasSuffix(Provider, "yahoo.com"))`,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Expression() != strings.TrimSpace(tt.expression) {
				t.Errorf("Expression() = %q", filter.Expression())
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	google := NewMapping("42", "https://www.google.com/profiles/alice")
	yahoo := NewMapping("7", "https://me.yahoo.com/a/bob")
	opaque := NewMapping("9", "opaque-id")

	tests := []struct {
		name       string
		expression string
		mapping    Mapping
		want       bool
	}{
		{"provider match", `Provider == "www.google.com"`, google, true},
		{"provider mismatch", `Provider == "www.google.com"`, yahoo, false},
		{"primary key", `PrimaryKey == "7"`, yahoo, true},
		{"includes is case-insensitive", `includes(Identifier, "ALICE")`, google, true},
		{"contains operator is case-sensitive", `Identifier contains "ALICE"`, google, false},
		{"hasSuffix", `hasSuffix(Provider, "YAHOO.com")`, yahoo, true},
		{"no provider for opaque id", `Provider == ""`, opaque, true},
		{"lower builtin", `lower(Identifier) == "opaque-id"`, opaque, true},
		{"negation", `not hasPrefix(Identifier, "https://")`, opaque, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := f.Evaluate(tt.mapping)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	mappings := FromAllMappings(map[string][]string{
		"2": {"https://me.yahoo.com/a/bob"},
		"1": {"https://www.google.com/profiles/alice", "https://www.facebook.com/alice"},
	})

	if len(mappings) != 3 {
		t.Fatalf("expected 3 mappings, got %d", len(mappings))
	}
	if mappings[0].PrimaryKey != "1" || mappings[2].PrimaryKey != "2" {
		t.Errorf("mappings not ordered by primary key: %+v", mappings)
	}

	f, err := Compile(`PrimaryKey == "1"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	matched, err := f.Apply(mappings)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(matched) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matched))
	}
	if matched[1].Provider != "www.facebook.com" {
		t.Errorf("unexpected provider %q", matched[1].Provider)
	}
}

func TestFromIdentifiers(t *testing.T) {
	got := FromIdentifiers("pk", []string{"https://Example.COM/x", "plain"})
	want := []Mapping{
		{PrimaryKey: "pk", Identifier: "https://Example.COM/x", Provider: "example.com"},
		{PrimaryKey: "pk", Identifier: "plain"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d mappings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mapping %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
