package model

import (
	"encoding/json"
	"testing"
)

func TestPositionJSON(t *testing.T) {
	cases := []struct {
		in   Position
		want string
	}{
		{IntPosition(3), `3`},
		{OrdinalPosition("primero"), `"primero"`},
	}
	for _, tc := range cases {
		raw, err := json.Marshal(tc.in)
		if err != nil {
			t.Fatalf("marshal %v: %v", tc.in, err)
		}
		if string(raw) != tc.want {
			t.Errorf("marshal %v = %s, want %s", tc.in, raw, tc.want)
		}

		var back Position
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if back != tc.in {
			t.Errorf("unmarshal %s = %+v, want %+v", raw, back, tc.in)
		}
	}
}

func TestPositionRejectsFractions(t *testing.T) {
	var p Position
	if err := json.Unmarshal([]byte(`1.5`), &p); err == nil {
		t.Error("expected an error for a fractional position")
	}
}
