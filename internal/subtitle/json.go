package subtitle

import (
	"encoding/json"
	"fmt"
)

// EncodeJSON serializes the collection as a UTF-8 JSON array carrying the
// full field set. An empty collection yields "[]".
func EncodeJSON(segments []Segment) ([]byte, error) {
	if segments == nil {
		segments = []Segment{}
	}
	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode segments: %w", err)
	}
	return data, nil
}

// DecodeJSON parses a JSON segment array, the inverse of EncodeJSON.
func DecodeJSON(data []byte) ([]Segment, error) {
	var segments []Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("failed to decode segments: %w", err)
	}
	return segments, nil
}
