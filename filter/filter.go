package filter

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled mapping predicate
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expr expression evaluated against each Mapping.
// The variables PrimaryKey, Identifier and Provider are available, along
// with the case-insensitive helpers includes, hasPrefix and hasSuffix.
// The expr operators and builtins such as contains and lower work as usual.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(Mapping{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Evaluate checks if a mapping matches the filter
func (f *Filter) Evaluate(m Mapping) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(m))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			PrimaryKey: m.PrimaryKey,
			Identifier: m.Identifier,
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Apply returns the mappings that match, stopping at the first evaluation error
func (f *Filter) Apply(mappings []Mapping) ([]Mapping, error) {
	var matched []Mapping
	for _, m := range mappings {
		ok, err := f.Evaluate(m)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func newEnvironment(m Mapping) map[string]any {
	env := map[string]any{
		"PrimaryKey": m.PrimaryKey,
		"Identifier": m.Identifier,
		"Provider":   m.Provider,
	}
	maps.Copy(env, helperFunctions)
	return env
}

var helperFunctions = map[string]any{
	"includes": func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	},
	"hasPrefix": func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	},
	"hasSuffix": func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	},
}
