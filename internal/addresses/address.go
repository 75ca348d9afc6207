package addresses

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is one saved delivery address. Entries live in a single ordered
// JSON array per customer, addressed by their position in the list.
type Entry struct {
	House         string `json:"house"`
	Area          string `json:"area"`
	Landmark      string `json:"landmark,omitempty"`
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Type          string `json:"type,omitempty"`
	Display       string `json:"display"`
}

// composeDisplay builds the single-line form shown on order receipts.
func composeDisplay(e Entry) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{e.House, e.Area, e.Landmark} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

func encodeEntries(entries []Entry) (string, error) {
	blob, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode addresses: %w", err)
	}
	return string(blob), nil
}

func decodeEntries(blob string) ([]Entry, error) {
	if strings.TrimSpace(blob) == "" {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(blob), &entries); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	return entries, nil
}
