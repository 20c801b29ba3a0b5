package advisor

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
)

var fencePattern = regexp.MustCompile("(?s)```[A-Za-z]*[ \\t]*\\n(.*?)```")

// extractPayload returns the single JSON value carried by an advisor answer. The answer
// is either the bare value or prose around exactly one fenced block holding it.
// Anything after the value inside its block is rejected.
func extractPayload(text string) (json.RawMessage, error) {
	body := strings.TrimSpace(text)
	switch blocks := fencePattern.FindAllStringSubmatch(body, -1); len(blocks) {
	case 0:
	case 1:
		body = strings.TrimSpace(blocks[0][1])
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrAdvisorMalformed, "answer holds more than one fenced block"), "blocks", len(blocks))
	}
	if body == "" {
		return nil, zerr.Wrap(domain.ErrAdvisorMalformed, "answer holds no payload")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrAdvisorMalformed, err), "payload is not valid JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(domain.ErrAdvisorMalformed, "trailing content after payload")
	}
	return raw, nil
}

// decodePayload extracts the payload, validates it against schema and unmarshals it into out.
func decodePayload(text string, schema *gojsonschema.Schema, out any) error {
	raw, err := extractPayload(text)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrAdvisorMalformed, err), "payload could not be validated")
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		err := zerr.Wrap(domain.ErrAdvisorMalformed, "payload does not match the expected shape")
		return zerr.With(err, "problems", strings.Join(problems, "; "))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(out); err != nil {
		return zerr.Wrap(errors.Join(domain.ErrAdvisorMalformed, err), "payload could not be decoded")
	}
	return nil
}
