package filter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/waifuctl/mywaifulist"
)

// programs caches compiled expressions per item type
var programs = newLRUCache(128)

// Filter is an expr expression compiled against the fields of T
type Filter[T any] struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression for items of type T. Fields are referenced by
// their Go names (Name, Likes, Husbando, ...), helpers like contains() and
// hasTag() are always available. Unknown fields are compile errors.
func Compile[T any](expression string) (*Filter[T], error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	var zero T
	key := fmt.Sprintf("%T|%s", zero, expression)
	if cached, ok := programs.Get(key); ok {
		return &Filter[T]{expression: expression, program: cached.(*vm.Program)}, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(zero)),
		expr.AsBool(), // Ensure boolean result
	)
	if err != nil {
		position := -1
		var fileErr *file.Error
		if errors.As(err, &fileErr) {
			position = fileErr.Column
		}
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   position,
			Err:        err,
		}
	}

	programs.Put(key, program)
	return &Filter[T]{expression: expression, program: program}, nil
}

// Match evaluates the filter against one item
func (f *Filter[T]) Match(item T) (bool, error) {
	result, err := expr.Run(f.program, environment(item))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Item:       describe(item),
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool), nil
}

// Apply returns the items the filter matches, in order. It stops at the first
// evaluation error.
func (f *Filter[T]) Apply(items []T) ([]T, error) {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// String returns the original expression
func (f *Filter[T]) String() string {
	return f.expression
}

// environment exposes the exported fields of item plus the helper functions
func environment(item any) map[string]any {
	env := make(map[string]any, 48)
	addHelperFunctions(env, item)

	v := reflect.ValueOf(item)
	if v.Kind() != reflect.Struct {
		env["Item"] = item
		return env
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		env[field.Name] = v.Field(i).Interface()
	}
	return env
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any, item any) {
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper

	// Tag helpers
	env["hasTag"] = func(tag string) bool {
		waifu, ok := item.(mywaifulist.Waifu)
		if !ok {
			return false
		}
		for _, t := range waifu.Tags {
			if strings.EqualFold(t.Name, tag) || strings.EqualFold(t.Slug, tag) {
				return true
			}
		}
		return false
	}

	// Appearance helpers
	env["appearsIn"] = func(series string) bool {
		waifu, ok := item.(mywaifulist.Waifu)
		if !ok {
			return false
		}
		if waifu.Series != nil && matchesSeries(*waifu.Series, series) {
			return true
		}
		for _, s := range waifu.Appearances {
			if matchesSeries(s, series) {
				return true
			}
		}
		return false
	}
}

func matchesSeries(s mywaifulist.FilteredSeries, name string) bool {
	return strings.EqualFold(s.Name, name) || strings.EqualFold(s.Slug, name)
}

func describe(item any) string {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Struct {
		if name := v.FieldByName("Name"); name.IsValid() && name.Kind() == reflect.String {
			return name.String()
		}
	}
	return fmt.Sprintf("%v", item)
}
