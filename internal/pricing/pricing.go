// Package pricing estimates damage repair cost from a fixed item price table.
package pricing

import "fmt"

// Item is a damageable room fixture and its repair price.
type Item struct {
	Name  string
	Label string
	Price float64
}

// Items lists the price table in display order.
var Items = []Item{
	{Name: "fan", Label: "Fan", Price: 50},
	{Name: "table", Label: "Table", Price: 100},
	{Name: "chair", Label: "Chair", Price: 200},
	{Name: "bed", Label: "Bed", Price: 500},
	{Name: "bulb", Label: "Bulb", Price: 30},
}

var prices = func() map[string]float64 {
	m := make(map[string]float64, len(Items))
	for _, it := range Items {
		m[it.Name] = it.Price
	}
	return m
}()

// Price returns the price of a single item and whether it is known.
func Price(name string) (float64, bool) {
	p, ok := prices[name]
	return p, ok
}

// Total sums the price of every checked item. Unknown items count as zero.
func Total(checked []string) float64 {
	var total float64
	for _, name := range checked {
		total += prices[name]
	}
	return total
}

// Format renders a total with two decimals.
func Format(total float64) string {
	return fmt.Sprintf("%.2f", total)
}
