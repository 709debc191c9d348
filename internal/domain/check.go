package domain

import "math"

// checker applies the declared value rules of a schema to constructed
// params and keeps the first failure.
type checker struct {
	schema *EntitySchema
	err    error
}

func newChecker(s *EntitySchema) *checker {
	return &checker{schema: s}
}

func (c *checker) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *checker) number(name string, v float64) {
	if c.err != nil {
		return
	}
	c.fail(c.schema.Field(name).Number.Check(name, v))
}

func (c *checker) optionalNumber(name string, v *float64) {
	if v != nil {
		c.number(name, *v)
	}
}

func (c *checker) integer(name string, v int) {
	if c.err != nil {
		return
	}
	c.fail(checkInt32(name, float64(v)))
	c.number(name, float64(v))
}

func (c *checker) text(name, v string) {
	if c.err != nil {
		return
	}
	c.fail(c.schema.Field(name).Text.Check(name, v))
}

func (c *checker) numbers(name string, vs []float64) {
	if c.err != nil {
		return
	}
	f := c.schema.Field(name)
	if len(vs) < f.MinItems {
		c.fail(newError(ErrRangeViolation, name, len(vs), "must have at least %d items", f.MinItems))
		return
	}
	for i, v := range vs {
		if err := f.Number.Check(index(name, i), v); err != nil {
			c.fail(err)
			return
		}
	}
}

func (c *checker) items(name string, n int) {
	if c.err != nil {
		return
	}
	if f := c.schema.Field(name); n < f.MinItems {
		c.fail(newError(ErrRangeViolation, name, n, "must have at least %d items", f.MinItems))
	}
}

func (c *checker) schedule(name string, w WeekSchedule) {
	if c.err != nil {
		return
	}
	c.fail(c.schema.Field(name).Matrix.CheckCells(name, w.Rows()))
}

// nested runs a constructor for a child value and re-roots its error.
func (c *checker) nested(path string, build func() error) {
	if c.err != nil {
		return
	}
	c.fail(nest(build(), path))
}

// canonical returns the canonical enum spelling of v, or v unchanged after
// recording a failure.
func canonical[T ~string](c *checker, name string, v T) T {
	if c.err != nil {
		return v
	}
	out, err := c.schema.Field(name).Enum.Canonical(name, string(v))
	if err != nil {
		c.fail(err)
		return v
	}
	return T(out)
}

// checkInt32 rejects integers the int32 wire format cannot carry, reporting
// the value as received.
func checkInt32(name string, v float64) error {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return newError(ErrRangeViolation, name, v, "must fit in a 32-bit integer")
	}
	return nil
}
