package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/uwg-schema/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validatedAt = time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)

func TestToRow_ValidReport(t *testing.T) {
	report := pipeline.Report{
		ID:         "abc",
		EntityType: "UWG",
		Valid:      true,
		Document:   json.RawMessage(`{"type":"UWG"}`),
		Stock: []pipeline.StockLine{
			{BuildingType: "largeoffice", BuiltEra: "new", Fraction: 1, BEMSource: "reference", ScheduleSource: "override"},
		},
		ValidatedAt: validatedAt,
	}

	row, err := toRow(report)
	require.NoError(t, err)

	assert.Equal(t, "abc", row.ID)
	assert.Equal(t, "UWG", row.EntityType)
	assert.True(t, row.Valid)
	assert.False(t, row.ErrorKind.Valid)
	assert.False(t, row.ErrorPath.Valid)
	assert.False(t, row.ErrorMessage.Valid)
	assert.JSONEq(t, `{"type":"UWG"}`, row.Document.String)
	assert.JSONEq(t, `[{"building_type":"largeoffice","built_era":"new","fraction":1,"bem_source":"reference","schedule_source":"override"}]`, row.Stock.String)
	assert.Equal(t, validatedAt, row.ValidatedAt)
}

func TestToRow_InvalidReport(t *testing.T) {
	report := pipeline.Report{
		ID:         "def",
		EntityType: "Building",
		Error: &pipeline.ReportError{
			Kind:    "range_violation",
			Path:    "glazing_ratio",
			Message: "glazing_ratio: must be at most 1",
		},
		ValidatedAt: validatedAt,
	}

	row, err := toRow(report)
	require.NoError(t, err)

	assert.False(t, row.Valid)
	assert.Equal(t, "range_violation", row.ErrorKind.String)
	assert.True(t, row.ErrorKind.Valid)
	assert.Equal(t, "glazing_ratio", row.ErrorPath.String)
	assert.True(t, row.ErrorPath.Valid)
	assert.True(t, row.ErrorMessage.Valid)
	assert.False(t, row.Document.Valid)
	assert.False(t, row.Stock.Valid)
}

func TestToRow_MalformedReportHasNoPath(t *testing.T) {
	row, err := toRow(pipeline.Report{
		ID:         "ghi",
		EntityType: "unknown",
		Error:      &pipeline.ReportError{Kind: pipeline.KindMalformedDocument, Message: "unexpected end of JSON input"},
	})
	require.NoError(t, err)
	assert.False(t, row.ErrorPath.Valid)
	assert.Equal(t, pipeline.KindMalformedDocument, row.ErrorKind.String)
}

func TestInsertReport_NamedParametersMatchRow(t *testing.T) {
	for _, col := range []string{
		"id", "entity_type", "valid", "error_kind", "error_path",
		"error_message", "document", "stock", "validated_at",
	} {
		assert.Contains(t, insertReport, ":"+col)
		assert.Contains(t, schema, col)
	}
	assert.Contains(t, insertReport, "ON CONFLICT (id) DO NOTHING")
}
