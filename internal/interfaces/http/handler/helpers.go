package handler

import "github.com/google/uuid"

// addUUIDFilter adds a parsed UUID value to a filter map. Empty and
// malformed values are skipped; the binding layer validates the format.
func addUUIDFilter(filters map[string]interface{}, key, value string) {
	if value == "" {
		return
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return
	}
	filters[key] = id
}
