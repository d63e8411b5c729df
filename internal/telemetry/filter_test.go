package telemetry

import (
	"math"
	"reflect"
	"testing"

	"shopping-fpti/internal/telemetry/domain"
)

func TestFilterFalsyValues(t *testing.T) {
	in := domain.Variables{"a": 0, "b": "", "c": nil, "d": false, "e": "x"}
	got := FilterFalsyValues(in)
	if !reflect.DeepEqual(got, domain.Variables{"e": "x"}) {
		t.Errorf("FilterFalsyValues = %v, want {e: x}", got)
	}
	if len(in) != 5 {
		t.Error("input must not be modified")
	}
}

func TestFilterFalsyValues_Kinds(t *testing.T) {
	var nilPtr *string
	var nilMap map[string]any
	testCases := []struct {
		name  string
		value any
		keep  bool
	}{
		{"int zero", 0, false},
		{"int64 zero", int64(0), false},
		{"uint zero", uint(0), false},
		{"float zero", 0.0, false},
		{"negative zero", math.Copysign(0, -1), false},
		{"NaN", math.NaN(), false},
		{"nil pointer", nilPtr, false},
		{"nil map", nilMap, false},
		{"true", true, true},
		{"negative", -1, true},
		{"fraction", 0.5, true},
		{"string zero", "0", true},
		{"string false", "false", true},
		{"empty map", map[string]any{}, true},
		{"empty slice", []string{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, kept := FilterFalsyValues(domain.Variables{"k": tc.value})["k"]
			if kept != tc.keep {
				t.Errorf("kept = %v, want %v", kept, tc.keep)
			}
		})
	}
}
