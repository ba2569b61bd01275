package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Position is a participant's turn in the chain. It is either a number
// or an ordinal word such as "primero"; a non-empty Ordinal takes precedence.
type Position struct {
	Number  int
	Ordinal string
}

// IntPosition returns a numeric position
func IntPosition(n int) Position {
	return Position{Number: n}
}

// OrdinalPosition returns a position given as text
func OrdinalPosition(s string) Position {
	return Position{Ordinal: s}
}

// IsOrdinal reports whether the position was given as text
func (p Position) IsOrdinal() bool {
	return p.Ordinal != ""
}

func (p Position) String() string {
	if p.IsOrdinal() {
		return p.Ordinal
	}
	return strconv.Itoa(p.Number)
}

// MarshalJSON writes a JSON number or a JSON string
func (p Position) MarshalJSON() ([]byte, error) {
	if p.IsOrdinal() {
		return json.Marshal(p.Ordinal)
	}
	return json.Marshal(p.Number)
}

// UnmarshalJSON reads back what MarshalJSON writes
func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = OrdinalPosition(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("puesto: %w", err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("puesto: %v is not an integer", f)
	}
	*p = IntPosition(int(f))
	return nil
}

// MarshalBSONValue stores numbers as int64 and ordinals as strings
func (p Position) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if p.IsOrdinal() {
		return bson.MarshalValue(p.Ordinal)
	}
	return bson.MarshalValue(int64(p.Number))
}

// UnmarshalBSONValue accepts any numeric BSON type or a string
func (p *Position) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*p = OrdinalPosition(rv.StringValue())
	case bsontype.Int32:
		*p = IntPosition(int(rv.Int32()))
	case bsontype.Int64:
		*p = IntPosition(int(rv.Int64()))
	case bsontype.Double:
		*p = IntPosition(int(rv.Double()))
	default:
		return fmt.Errorf("puesto: unsupported BSON type %s", t)
	}
	return nil
}
