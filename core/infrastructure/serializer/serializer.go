package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperterse/sqlgeneric/core/domain"
)

// Format selects the envelope encoding
type Format int

const (
	// FormatXML is the <results> envelope the task engine reads
	FormatXML Format = iota
	// FormatJSON carries the same two fields as a JSON object
	FormatJSON
)

const (
	ResultField       = "Result"
	ErrorMessageField = "Handler Error Message"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape replaces & " < > with their entities in a single pass, so each
// character of the input is replaced at most once
func Escape(s string) string {
	return escaper.Replace(s)
}

// Envelope is the escaped text of both result fields
type Envelope struct {
	Result       string `json:"Result"`
	ErrorMessage string `json:"Handler Error Message"`
}

// Build converts an outcome into escaped field text. String payloads pass
// through; any other payload is JSON-encoded first.
func Build(outcome domain.ExecutionOutcome) (Envelope, error) {
	result, err := payloadText(outcome.Payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Result:       Escape(result),
		ErrorMessage: Escape(outcome.ErrorMessage),
	}, nil
}

// Render produces the envelope for outcome in the given format
func Render(outcome domain.ExecutionOutcome, format Format) (string, error) {
	env, err := Build(outcome)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatXML:
		return env.XML(), nil
	case FormatJSON:
		return env.JSON()
	default:
		return "", fmt.Errorf("unknown envelope format %d", int(format))
	}
}

// XML renders the envelope as the two-field results document
func (e Envelope) XML() string {
	var b strings.Builder
	b.WriteString("<results>\n")
	fmt.Fprintf(&b, "  <result name=%q>%s</result>\n", ResultField, e.Result)
	fmt.Fprintf(&b, "  <result name=%q>%s</result>\n", ErrorMessageField, e.ErrorMessage)
	b.WriteString("</results>\n")
	return b.String()
}

// JSON renders the envelope as a JSON object with both fields
func (e Envelope) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func payloadText(payload any) (string, error) {
	switch v := payload.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("failed to encode result: %w", err)
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	}
}
