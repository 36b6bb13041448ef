package postgres

import "github.com/google/uuid"

// isUUID reports whether id can be compared against a UUID column. Anything
// else would fail server side with invalid_text_representation, so callers
// answer with their not-found error instead of querying.
func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}
