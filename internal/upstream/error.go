package upstream

import (
	"encoding/json"
	"fmt"
)

// Error carries a non-2xx upstream response unmodified. Callers pass the
// status code and raw body through to the API consumer rather than
// reinterpreting them.
type Error struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.StatusCode, string(e.Body))
}
