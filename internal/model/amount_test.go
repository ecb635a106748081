package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  float64
		expectErr bool
	}{
		{name: "Number", raw: `120.5`, expected: 120.5},
		{name: "Numeric string", raw: `"1500.00"`, expected: 1500},
		{name: "Null", raw: `null`, expected: 0},
		{name: "Empty string", raw: `""`, expected: 0},
		{name: "Garbage string", raw: `"abc"`, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tc.raw), &a)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tc.expected, float64(a), 0.0001)
		})
	}
}

func TestDamageReport_Fallbacks(t *testing.T) {
	var withBoth DamageReport
	err := json.Unmarshal([]byte(`{"report_id":"d1","damage_description":"Broken tiles","description":"ignored","estimated_cost":"300"}`), &withBoth)
	assert.NoError(t, err)
	assert.Equal(t, "Broken tiles", withBoth.Summary())
	assert.Equal(t, 300.0, withBoth.Cost())

	plain := DamageReport{Description: "Cracked window"}
	assert.Equal(t, "Cracked window", plain.Summary())
	assert.Equal(t, 0.0, plain.Cost())

	assert.Equal(t, "N/A", DamageReport{}.Summary())
}
