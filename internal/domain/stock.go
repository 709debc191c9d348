package domain

import (
	"encoding/json"
	"slices"

	"github.com/shopspring/decimal"
)

// StockTolerance is the largest accepted distance between the sum of the
// stock fractions and 1.
const StockTolerance = 1e-10

var stockFractionRule = Bounded(0, 1)

// StockRow assigns a fraction of the urban building stock to one archetype.
// On the wire it is the triple ["largeoffice", "new", 0.4].
type StockRow struct {
	BuildingType string
	BuiltEra     BuiltEra
	Fraction     float64
}

// Key returns the archetype identity the row refers to.
func (r StockRow) Key() ArchetypeKey { return KeyOf(r.BuildingType, r.BuiltEra) }

func (r StockRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.BuildingType, r.BuiltEra, r.Fraction})
}

func (r *StockRow) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || len(items) != 3 {
		return newError(ErrTypeMismatch, "", nil, "must be a [building_type, built_era, fraction] triple")
	}
	var out StockRow
	if err := json.Unmarshal(items[0], &out.BuildingType); err != nil {
		return newError(ErrTypeMismatch, "[0]", string(items[0]), "building type must be a string")
	}
	if err := json.Unmarshal(items[1], &out.BuiltEra); err != nil {
		return newError(ErrTypeMismatch, "[1]", string(items[1]), "built era must be a string")
	}
	v, ok := decodeNumber(items[2])
	if !ok {
		return newError(ErrTypeMismatch, "[2]", string(items[2]), "fraction must be a number")
	}
	out.Fraction = v
	*r = out
	return nil
}

// checkStock validates every row, canonicalizes eras and requires the
// fractions to sum to 1 within StockTolerance. The total is accumulated in
// decimal so that fractions such as 0.1 and 0.2 add exactly.
func checkStock(name string, rows []StockRow) ([]StockRow, error) {
	if len(rows) == 0 {
		return nil, newError(ErrRangeViolation, name, 0, "must list at least one archetype")
	}
	out := slices.Clone(rows)
	total := decimal.Zero
	for i := range out {
		path := index(name, i)
		if out[i].BuildingType == "" {
			return nil, newError(ErrRangeViolation, path+"[0]", "", "building type must not be empty")
		}
		era, err := builtEraSchema.Rule.Canonical(path+"[1]", string(out[i].BuiltEra))
		if err != nil {
			return nil, err
		}
		out[i].BuiltEra = BuiltEra(era)
		if err := stockFractionRule.Check(path+"[2]", out[i].Fraction); err != nil {
			return nil, err
		}
		total = total.Add(decimal.NewFromFloat(out[i].Fraction))
	}
	if total.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(decimal.NewFromFloat(StockTolerance)) {
		sum, _ := total.Float64()
		return nil, newError(ErrStockFraction, name, sum, "fractions must sum to 1 within %g", StockTolerance)
	}
	return out, nil
}
