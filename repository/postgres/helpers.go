package postgres

import (
	"encoding/json"
	"strings"

	"github.com/montasim/school-management-backend-sub003/domain"
)

func marshalJSON(data map[string]interface{}) []byte {
	if data == nil {
		return []byte("{}")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func marshalFile(file *domain.StoredFile) []byte {
	if file == nil {
		return nil
	}
	b, err := json.Marshal(file)
	if err != nil {
		return nil
	}
	return b
}

// sanitizeIdentifier strips anything that is not a lowercase letter,
// digit or underscore. Collection names come from the catalog, not from
// requests, but they are interpolated into SQL and get scrubbed anyway.
func sanitizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
