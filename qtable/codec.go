package qtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/beka-birhanu/vinom-qmaze/maze"
)

// Encode serializes the table as a JSON object mapping "<row> <col>" keys to
// [up, down, right, left] arrays. Keys are written in row-major state order,
// so equal tables encode to identical bytes.
func Encode(t *Table) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, s := range t.States() {
		if i > 0 {
			compact.WriteByte(',')
		}
		compact.WriteString(strconv.Quote(s.String()))
		compact.WriteByte(':')

		values := t.values[s]
		row, err := json.Marshal(values[:])
		if err != nil {
			return nil, fmt.Errorf("encode state %s: %w", s, err)
		}
		compact.Write(row)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Decode parses data produced by Encode. Any structural problem is reported
// as ErrCorruptState.
func Decode(data []byte) (*Table, error) {
	var raw map[string][]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrCorruptState)
	}

	t := &Table{values: make(map[maze.State]Values, len(raw))}
	for key, row := range raw {
		s, err := maze.ParseState(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		if len(row) != maze.NumActions {
			return nil, fmt.Errorf("%w: state %q has %d values, want %d", ErrCorruptState, key, len(row), maze.NumActions)
		}
		if _, dup := t.values[s]; dup {
			return nil, fmt.Errorf("%w: state %q listed twice", ErrCorruptState, key)
		}

		var v Values
		for a, value := range row {
			if value == nil {
				return nil, fmt.Errorf("%w: state %q has a null value", ErrCorruptState, key)
			}
			v[a] = *value
		}
		t.values[s] = v
	}
	return t, nil
}
