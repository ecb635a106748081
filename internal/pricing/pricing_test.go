package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotal(t *testing.T) {
	testCases := []struct {
		name     string
		checked  []string
		expected string
	}{
		{name: "Nothing checked", checked: nil, expected: "0.00"},
		{name: "Fan and bulb", checked: []string{"fan", "bulb"}, expected: "80.00"},
		{name: "Everything", checked: []string{"fan", "table", "chair", "bed", "bulb"}, expected: "880.00"},
		{name: "Unknown item ignored", checked: []string{"bed", "sofa"}, expected: "500.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Format(Total(tc.checked)))
		})
	}
}

func TestTotal_EverySubset(t *testing.T) {
	for mask := 0; mask < 1<<len(Items); mask++ {
		var checked []string
		var want float64
		for i, it := range Items {
			if mask&(1<<i) != 0 {
				checked = append(checked, it.Name)
				want += it.Price
			}
		}
		assert.Equal(t, want, Total(checked), "items %v", checked)
		assert.Equal(t, fmt.Sprintf("%.2f", want), Format(Total(checked)), "items %v", checked)
	}
}

func TestPrice(t *testing.T) {
	p, ok := Price("chair")
	assert.True(t, ok)
	assert.Equal(t, 200.0, p)

	_, ok = Price("sofa")
	assert.False(t, ok)
}

func TestItemsOrder(t *testing.T) {
	names := make([]string, len(Items))
	for i, it := range Items {
		names[i] = it.Name
	}
	assert.Equal(t, []string{"fan", "table", "chair", "bed", "bulb"}, names)
}
