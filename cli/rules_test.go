package cli

import (
	"testing"

	"github.com/amp-labs/envcheck/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		decl     string
		accept   []string
		reject   []string
		optional bool
	}{
		{"string", "A=string", []string{"x"}, []string{""}, false},
		{"number", "A=number", []string{"1.5", "-2"}, []string{"abc", "NaN"}, false},
		{"int", "A=int", []string{"42"}, []string{"4.2"}, false},
		{"boolean", "A=boolean", []string{"true", "false"}, []string{"1", "yes"}, false},
		{"permissive boolean", "A=boolean-permissive", []string{"1", "0", "true"}, []string{"yes", "TRUE"}, false},
		{"email", "A=email", []string{"a@b.co"}, []string{"a@b"}, false},
		{"url", "A=url", []string{"https://example.com"}, []string{"example.com"}, false},
		{"port", "A=port", []string{"1", "65535"}, []string{"0", "65536"}, false},
		{"hostport", "A=hostport", []string{"db:5432", ":80"}, []string{"db"}, false},
		{"duration", "A=duration", []string{"1m30s"}, []string{"90"}, false},
		{"uuid", "A=uuid", []string{"123e4567-e89b-12d3-a456-426614174000"}, []string{"nope"}, false},
		{"loglevel", "A=loglevel", []string{"debug", "WARN"}, []string{"loud"}, false},
		{"oneof", "A=oneof:dev|prod", []string{"dev", "prod"}, []string{"test", ""}, false},
		{"optional", "A=optional:port", []string{"", "80"}, []string{"http"}, true},
		{"whitespace", " A = int ", []string{"1"}, []string{"x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule, err := ParseRule(tt.decl)
			require.NoError(t, err)
			assert.Equal(t, "A", rule.Name)
			assert.Equal(t, "A", rule.Field().Name())
			assert.Equal(t, tt.optional, rule.Optional)

			for _, raw := range tt.accept {
				assert.True(t, rule.Accepts(raw), "should accept %q", raw)
			}

			for _, raw := range tt.reject {
				assert.False(t, rule.Accepts(raw), "should reject %q", raw)
			}
		})
	}
}

func TestParseRuleErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		decl string
		err  error
	}{
		{"NOEQUALS", ErrBadDeclaration},
		{"=string", ErrBadDeclaration},
		{"A=", ErrBadDeclaration},
		{"A=float", ErrUnknownRule},
		{"A=optional:", ErrUnknownRule},
		{"A=optional:optional:int", ErrUnknownRule},
		{"A=oneof:a||b", ErrUnknownRule},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRule(tt.decl)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseRules(t *testing.T) {
	t.Parallel()

	rules, schema, err := ParseRules([]string{"PORT=port", "MODE=string", "PORT=optional:port"})
	require.NoError(t, err)

	require.Len(t, rules, 2)
	assert.Equal(t, "optional:port", rules[0].Rule)
	assert.Equal(t, []string{"PORT", "MODE"}, schema.Names())

	cfg, err := envutil.Resolve(envutil.Map{"MODE": "x"}, schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"PORT", "MODE"}, cfg.Keys())

	_, _, err = ParseRules([]string{"PORT=port", "BAD"})
	require.ErrorIs(t, err, ErrBadDeclaration)
}

func TestRuleNames(t *testing.T) {
	t.Parallel()

	names := RuleNames()
	assert.Contains(t, names, "port")
	assert.Contains(t, names, "oneof:a|b|c")
	assert.IsIncreasing(t, names)
}
