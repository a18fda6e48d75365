package cloudbuild

import (
	"encoding/json"
	"fmt"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// decodeMessage extracts {data:{action, payload:{message}}} from an event's
// arguments. Missing fields decode to empty strings; a non-JSON string is
// taken as the message itself.
func decodeMessage(args ...any) entities.BuildMessage {
	if len(args) == 0 || args[0] == nil {
		return entities.BuildMessage{}
	}

	var envelope map[string]any
	switch raw := args[0].(type) {
	case map[string]any:
		envelope = raw
	case string:
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			return entities.BuildMessage{Message: raw}
		}
	case []byte:
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return entities.BuildMessage{Message: string(raw)}
		}
	default:
		return entities.BuildMessage{Message: fmt.Sprint(raw)}
	}

	data := field(envelope, "data")
	payload := field(data, "payload")
	return entities.BuildMessage{
		Action:  text(data, "action"),
		Message: text(payload, "message"),
	}
}

func field(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	nested, _ := m[key].(map[string]any)
	return nested
}

func text(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
