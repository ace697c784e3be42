package domain

import (
	"encoding/json"
	"strings"
)

// AmenitySet is an ordered, case-insensitively deduplicated list of tags.
// On the wire it is accepted either as "WiFi, AC" or as ["WiFi","AC"].
type AmenitySet []string

func ParseAmenities(s string) AmenitySet {
	return NewAmenitySet(strings.Split(s, ",")...)
}

func NewAmenitySet(tags ...string) AmenitySet {
	out := make(AmenitySet, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (a AmenitySet) Union(b AmenitySet) AmenitySet {
	merged := make([]string, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return NewAmenitySet(merged...)
}

func (a AmenitySet) Contains(tag string) bool {
	for _, t := range a {
		if strings.EqualFold(t, strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}

// String renders the legacy comma-separated form.
func (a AmenitySet) String() string { return strings.Join(a, ", ") }

func (a AmenitySet) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

func (a *AmenitySet) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = ParseAmenities(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return Invalid("amenities must be a string or a list of strings")
	}
	*a = NewAmenitySet(list...)
	return nil
}
