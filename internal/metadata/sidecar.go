package metadata

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"mediasort/internal/timestamp"
)

// takeoutSidecar models the slice of a Google Takeout JSON sidecar the
// resolver cares about.
type takeoutSidecar struct {
	PhotoTakenTime struct {
		Timestamp string `json:"timestamp"`
	} `json:"photoTakenTime"`
}

// ReadSidecarTime extracts photoTakenTime.timestamp (epoch seconds) from a
// JSON sidecar. Malformed sidecars report absence, not failure.
func ReadSidecarTime(path string) (timestamp.Timestamp, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timestamp.Timestamp{}, false
	}
	var sidecar takeoutSidecar
	if err := json.Unmarshal(data, &sidecar); err != nil {
		return timestamp.Timestamp{}, false
	}
	raw := sidecar.PhotoTakenTime.Timestamp
	if raw == "" {
		return timestamp.Timestamp{}, false
	}
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || epoch <= 0 {
		return timestamp.Timestamp{}, false
	}
	return timestamp.FromTime(time.Unix(epoch, 0)), true
}
