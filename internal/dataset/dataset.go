package dataset

import (
	"math"
	"strings"
	"unicode"
)

// Dataset maps channel names to numeric columns and remembers the order
// in which channels were first added.
type Dataset struct {
	order   []string
	columns map[string][]float64
}

// New creates an empty Dataset
func New() *Dataset {
	return &Dataset{columns: make(map[string][]float64)}
}

// FromColumns builds a Dataset from names and columns given in order.
// Names are used verbatim.
func FromColumns(names []string, columns [][]float64) *Dataset {
	ds := New()
	for i, name := range names {
		var col []float64
		if i < len(columns) {
			col = columns[i]
		}
		ds.Set(name, col)
	}
	return ds
}

// Set creates or overwrites a channel. An overwritten channel keeps its
// original position.
func (d *Dataset) Set(name string, values []float64) {
	if _, ok := d.columns[name]; !ok {
		d.order = append(d.order, name)
	}
	if values == nil {
		values = []float64{}
	}
	d.columns[name] = values
}

// Append adds a single value to the end of a channel, creating it if needed.
func (d *Dataset) Append(name string, value float64) {
	if _, ok := d.columns[name]; !ok {
		d.order = append(d.order, name)
	}
	d.columns[name] = append(d.columns[name], value)
}

// Get returns the column stored under name
func (d *Dataset) Get(name string) ([]float64, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// Has reports whether a channel exists
func (d *Dataset) Has(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Delete removes a channel if it exists
func (d *Dataset) Delete(name string) {
	if _, ok := d.columns[name]; !ok {
		return
	}
	delete(d.columns, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			return
		}
	}
}

// Names returns channel names in insertion order
func (d *Dataset) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of channels
func (d *Dataset) Len() int {
	return len(d.order)
}

// MaxRows returns the length of the longest channel.
func (d *Dataset) MaxRows() int {
	rows := 0
	for _, col := range d.columns {
		if len(col) > rows {
			rows = len(col)
		}
	}
	return rows
}

// Clone returns a deep copy
func (d *Dataset) Clone() *Dataset {
	out := New()
	for _, name := range d.order {
		col := make([]float64, len(d.columns[name]))
		copy(col, d.columns[name])
		out.Set(name, col)
	}
	return out
}

// Map returns the columns as a plain map. The slices are shared.
func (d *Dataset) Map() map[string][]float64 {
	out := make(map[string][]float64, len(d.columns))
	for k, v := range d.columns {
		out[k] = v
	}
	return out
}

// IsFinite reports whether v may be stored in a Dataset.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SanitizeName turns a raw header or channel reference into a channel
// name: surrounding whitespace is trimmed, parentheses are removed and
// each run of inner whitespace becomes a single underscore.
//
//	" Load (kN) " -> "Load_kN"
func SanitizeName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), "_")
}
