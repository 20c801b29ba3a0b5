package advisor

import "encoding/json"

// ExtractPayload exposes extractPayload for testing.
func ExtractPayload(text string) (json.RawMessage, error) {
	return extractPayload(text)
}
