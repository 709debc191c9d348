package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Submission is an unprocessed document read from the source topic.
type Submission struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Report is the validation outcome of one submitted document.
type Report struct {
	ID          string          `json:"id"`
	EntityType  string          `json:"entity_type"`
	Valid       bool            `json:"valid"`
	Error       *ReportError    `json:"error,omitempty"`
	Document    json.RawMessage `json:"document,omitempty"`
	Stock       []StockLine     `json:"stock,omitempty"`
	ValidatedAt time.Time       `json:"validated_at"`
}

// ReportError is the first violation found in an invalid document.
type ReportError struct {
	Kind       string `json:"kind"`
	Path       string `json:"path,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Value      any    `json:"value,omitempty"`
	Message    string `json:"message"`
}

// StockLine is one row of a UWG building stock with the archetype it
// resolved to.
type StockLine struct {
	BuildingType   string  `json:"building_type"`
	BuiltEra       string  `json:"built_era"`
	Fraction       float64 `json:"fraction"`
	BEMSource      string  `json:"bem_source"`
	ScheduleSource string  `json:"schedule_source"`
}

// ReportID is the deterministic identifier of a payload, so replays of the
// same document produce the same report key.
func ReportID(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
