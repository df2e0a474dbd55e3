package postgres

import "encoding/json"

// validJSON guards the jsonb cast so a bad payload fails before the round trip.
func validJSON(doc []byte) bool {
	return len(doc) > 0 && json.Valid(doc)
}
