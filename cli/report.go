package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/envcheck/envutil"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown output format")

type format string

const (
	formatText format = "text"
	formatJSON format = "json"
	formatYAML format = "yaml"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(s)); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want text, json or yaml)", ErrUnknownFormat, s)
	}
}

// failureReport is the structured form of a *envutil.ValidationError.
type failureReport struct {
	Message string   `json:"message"          yaml:"message"`
	Invalid []string `json:"invalidVariables" yaml:"invalidVariables"`
	Missing []string `json:"missingVariables" yaml:"missingVariables"`
}

func newFailureReport(err *envutil.ValidationError) failureReport {
	report := failureReport{
		Message: err.Error(),
		Invalid: err.Invalid(),
		Missing: err.Missing(),
	}

	if report.Invalid == nil {
		report.Invalid = []string{}
	}

	if report.Missing == nil {
		report.Missing = []string{}
	}

	return report
}

func writeConfig(w io.Writer, cfg *envutil.Config, f format) error {
	switch f {
	case formatJSON:
		return writeJSON(w, cfg)
	case formatYAML:
		return writeYAML(w, cfg)
	case formatText:
	}

	for key, val := range cfg.All() {
		if _, err := fmt.Fprintf(w, "%s=%v\n", key, val); err != nil {
			return err
		}
	}

	return nil
}

func writeFailure(w io.Writer, vErr *envutil.ValidationError, f format) error {
	report := newFailureReport(vErr)

	switch f {
	case formatJSON:
		return writeJSON(w, report)
	case formatYAML:
		return writeYAML(w, report)
	case formatText:
	}

	var sb strings.Builder

	sb.WriteString(report.Message)
	sb.WriteByte('\n')

	for _, failure := range vErr.Failures() {
		fmt.Fprintf(&sb, "  %s: %s\n", failure.Kind, failure.Key)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)

	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}
