package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/amp-labs/envcheck/envutil"
	"github.com/manifoldco/promptui"
)

var errRejected = errors.New("value does not satisfy the rule")

// Prompter asks for a value. validate rejects input that the variable's rule
// would not accept; the prompt keeps asking until it passes.
type Prompter func(label string, validate func(string) error) (string, error)

// TerminalPrompter prompts on a terminal with promptui.
func TerminalPrompter(in io.ReadCloser, out io.WriteCloser) Prompter {
	return func(label string, validate func(string) error) (string, error) {
		prompt := promptui.Prompt{
			Label:    label,
			Validate: validate,
			Stdin:    in,
			Stdout:   out,
		}

		return prompt.Run()
	}
}

// promptFailures asks for a new value for every variable in vErr, in the
// order they were reported. The answers are keyed by the looked-up name,
// prefix included, so they can be layered over the environment.
func promptFailures(prompt Prompter, vErr *envutil.ValidationError, rules []Rule, prefix string) (envutil.Map, error) {
	answers := make(envutil.Map, len(vErr.Failures()))

	for _, failure := range vErr.Failures() {
		rule, ok := findRule(rules, failure.Key)
		if !ok {
			continue
		}

		label := fmt.Sprintf("%s%s (%s, %s)", prefix, rule.Name, rule.Rule, failure.Kind)

		value, err := prompt(label, func(s string) error {
			if !rule.Accepts(s) {
				return errRejected
			}

			return nil
		})
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil, fmt.Errorf("prompt for %s cancelled: %w", failure.Key, err)
			}

			return nil, fmt.Errorf("prompting for %s: %w", failure.Key, err)
		}

		answers[prefix+rule.Name] = value
	}

	return answers, nil
}

func findRule(rules []Rule, name string) (Rule, bool) {
	for _, r := range rules {
		if r.Name == name {
			return r, true
		}
	}

	return Rule{}, false
}
