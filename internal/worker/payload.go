package worker

import (
	"encoding/json"
	"fmt"
)

// DecodePayload unmarshals a job payload into dst.
func DecodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return Permanent(fmt.Errorf("job payload is empty"))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return Permanent(fmt.Errorf("decode job payload: %w", err))
	}
	return nil
}
