package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/uwg-schema/internal/domain"
	"github.com/couchcryptid/uwg-schema/internal/observability"
)

// Error kinds as written to reports.
const (
	KindMalformedDocument = "malformed_document"
	unknownEntity         = "unknown"
)

var errorKinds = []struct {
	err  error
	name string
}{
	{domain.ErrRangeViolation, "range_violation"},
	{domain.ErrUnrecognizedEnumValue, "unrecognized_enum_value"},
	{domain.ErrScheduleShape, "schedule_shape"},
	{domain.ErrStructuralMismatch, "structural_mismatch"},
	{domain.ErrStockFraction, "stock_fraction"},
	{domain.ErrUnresolvedArchetype, "unresolved_archetype"},
	{domain.ErrClosedSchemaViolation, "closed_schema_violation"},
	{domain.ErrMissingField, "missing_field"},
	{domain.ErrTypeMismatch, "type_mismatch"},
	{domain.ErrPatternMismatch, "pattern_mismatch"},
}

// Validator turns submitted documents into validation reports. Invalid
// documents yield a report with Valid false rather than an error.
type Validator struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewValidator creates a Validator.
func NewValidator(logger *slog.Logger, metrics *observability.Metrics) *Validator {
	return &Validator{logger: logger, metrics: metrics}
}

func (v *Validator) Transform(_ context.Context, sub Submission) (Report, error) {
	return v.Validate(sub.Value)
}

// Validate decodes payload by its type discriminator and reports the
// outcome. The error is non-nil only when the report itself cannot be built.
func (v *Validator) Validate(payload []byte) (Report, error) {
	start := time.Now()
	report := Report{
		ID:          ReportID(payload),
		EntityType:  peekType(payload),
		ValidatedAt: clock.Now().UTC(),
	}

	entity, err := domain.Decode(payload)
	defer func() {
		v.metrics.ValidationDuration.WithLabelValues(report.EntityType).Observe(time.Since(start).Seconds())
	}()
	if err != nil {
		report.Error = describe(err)
		outcome := "invalid"
		if report.Error.Kind == KindMalformedDocument {
			outcome = "malformed"
		}
		v.metrics.ValidationResults.WithLabelValues(report.EntityType, outcome).Inc()
		v.logger.Debug("document rejected",
			"id", report.ID,
			"entity_type", report.EntityType,
			"kind", report.Error.Kind,
			"path", report.Error.Path,
		)
		return report, nil
	}

	doc, err := json.Marshal(entity)
	if err != nil {
		return Report{}, fmt.Errorf("encode %s document: %w", entity.EntityName(), err)
	}
	report.EntityType = entity.EntityName()
	report.Valid = true
	report.Document = doc
	if u, ok := entity.(domain.UWG); ok {
		report.Stock = stockLines(u)
	}
	v.metrics.ValidationResults.WithLabelValues(report.EntityType, "valid").Inc()
	return report, nil
}

// peekType returns the document's type discriminator when it names a known
// entity.
func peekType(payload []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(payload, &head) != nil {
		return unknownEntity
	}
	for _, name := range domain.EntityNames() {
		if head.Type == name {
			return name
		}
	}
	return unknownEntity
}

func describe(err error) *ReportError {
	out := &ReportError{Kind: KindMalformedDocument, Message: err.Error()}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return out
	}
	out.Kind = kindName(ve.Kind)
	out.Path = ve.Path
	out.Constraint = ve.Constraint
	out.Value = ve.Value
	if f, ok := ve.Value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		out.Value = fmt.Sprint(f)
	}
	return out
}

func kindName(kind error) string {
	for _, k := range errorKinds {
		if errors.Is(kind, k.err) {
			return k.name
		}
	}
	return KindMalformedDocument
}

func stockLines(u domain.UWG) []StockLine {
	stock := u.Stock()
	out := make([]StockLine, len(stock))
	for i, e := range stock {
		out[i] = StockLine{
			BuildingType:   e.Row.BuildingType,
			BuiltEra:       string(e.Row.BuiltEra),
			Fraction:       e.Row.Fraction,
			BEMSource:      string(e.BEMSource),
			ScheduleSource: string(e.ScheduleSource),
		}
	}
	return out
}
