package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/amp-labs/envcheck/envutil"
	"github.com/amp-labs/envcheck/validators"
)

var (
	ErrBadDeclaration = errors.New("declaration must look like NAME=RULE")
	ErrUnknownRule    = errors.New("unknown rule")
)

const (
	optionalPrefix = "optional:"
	oneOfPrefix    = "oneof:"
)

// Rule is one parsed NAME=RULE declaration.
type Rule struct {
	Name     string
	Rule     string
	Optional bool

	field   envutil.Field
	accepts func(raw string) bool
}

// Field returns the schema entry for the declaration.
func (r Rule) Field() envutil.Field {
	return r.field
}

// Accepts reports whether raw would pass the rule's validator. An optional
// rule accepts the empty string.
func (r Rule) Accepts(raw string) bool {
	if r.Optional && raw == "" {
		return true
	}

	return r.accepts(raw)
}

type ruleBuilder func(name string, opt bool) Rule

func builder[T any](v validators.Validator[T]) ruleBuilder {
	return func(name string, opt bool) Rule {
		accepts := func(raw string) bool {
			_, ok := v.Validate(raw)

			return ok
		}

		if opt {
			return Rule{Name: name, Optional: true, field: envutil.Define(name, validators.Optional(v)), accepts: accepts}
		}

		return Rule{Name: name, field: envutil.Define(name, v), accepts: accepts}
	}
}

func builtinRules() map[string]ruleBuilder {
	return map[string]ruleBuilder{
		"string":             builder(validators.String),
		"number":             builder(validators.Number),
		"int":                builder(validators.Int),
		"boolean":            builder(validators.Boolean),
		"boolean-permissive": builder(validators.BooleanPermissive),
		"email":              builder(validators.Email),
		"url":                builder(validators.URL),
		"port":               builder(validators.Port),
		"hostport":           builder(validators.HostPort),
		"duration":           builder(validators.Duration),
		"uuid":               builder(validators.UUID),
		"loglevel":           builder(validators.LogLevel),
	}
}

// RuleNames lists the rules ParseRule understands, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(builtinRules())+1)
	for name := range builtinRules() {
		names = append(names, name)
	}

	names = append(names, "oneof:a|b|c")

	slices.Sort(names)

	return names
}

// ParseRule parses a NAME=RULE declaration. RULE is a builtin rule name,
// oneof:a|b|c, or either of those behind optional:.
func ParseRule(decl string) (Rule, error) {
	name, spec, ok := strings.Cut(decl, "=")
	name = strings.TrimSpace(name)
	spec = strings.TrimSpace(spec)

	if !ok || name == "" || spec == "" {
		return Rule{}, fmt.Errorf("%w: %q", ErrBadDeclaration, decl)
	}

	opt := false

	ruleSpec := spec
	if rest, found := strings.CutPrefix(ruleSpec, optionalPrefix); found {
		opt = true
		ruleSpec = rest
	}

	build, err := lookupRule(ruleSpec)
	if err != nil {
		return Rule{}, fmt.Errorf("%s: %w", name, err)
	}

	rule := build(name, opt)
	rule.Rule = spec

	return rule, nil
}

func lookupRule(spec string) (ruleBuilder, error) {
	if choices, found := strings.CutPrefix(spec, oneOfPrefix); found {
		values := strings.Split(choices, "|")
		if slices.Contains(values, "") {
			return nil, fmt.Errorf("%w: %q has an empty choice", ErrUnknownRule, spec)
		}

		return builder(validators.OneOf(values...)), nil
	}

	build, ok := builtinRules()[spec]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, spec)
	}

	return build, nil
}

// ParseRules parses every declaration and builds the schema in argument
// order. A name declared twice keeps its first position and its last rule,
// the same as NewSchema.
func ParseRules(decls []string) ([]Rule, *envutil.Schema, error) {
	rules := make([]Rule, 0, len(decls))
	fields := make([]envutil.Field, 0, len(decls))

	for _, decl := range decls {
		rule, err := ParseRule(decl)
		if err != nil {
			return nil, nil, err
		}

		if i := slices.IndexFunc(rules, func(r Rule) bool { return r.Name == rule.Name }); i >= 0 {
			rules[i] = rule
		} else {
			rules = append(rules, rule)
		}

		fields = append(fields, rule.Field())
	}

	return rules, envutil.NewSchema(fields...), nil
}
