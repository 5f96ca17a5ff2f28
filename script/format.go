package script

import (
	"encoding/json"
	"fmt"
)

// FormatPayload renders a result payload for display: strings verbatim,
// Unit by name, nil as null, everything else as JSON when it marshals.
func FormatPayload(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case Unit:
		return val.String()
	case nil:
		return "null"
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprint(v)
}
