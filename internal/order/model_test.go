package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeTotals(t *testing.T) {
	// qty 3 @ 10000, qty 1 @ 5000, both at 18% GST:
	// subtotal 35000, tax 6300, payable 41300.
	o := &Order{
		Lines: []Line{
			{Quantity: 3, UnitPrice: 10000, GSTRate: 18, LineTotal: 30000},
			{Quantity: 1, UnitPrice: 5000, GSTRate: 18, LineTotal: 5000},
		},
	}

	o.RecomputeTotals()

	assert.Equal(t, int64(6300), o.TotalTax)
	assert.Equal(t, int64(41300), o.TotalPayable)
}

func TestRecomputeTotals_Invariant(t *testing.T) {
	o := &Order{
		Lines: []Line{
			{Quantity: 2, UnitPrice: 333, GSTRate: 12.5, LineTotal: 666},
			{Quantity: 7, UnitPrice: 199, GSTRate: 5, LineTotal: 1393},
		},
	}

	o.RecomputeTotals()

	var subtotal, tax int64
	for _, l := range o.Lines {
		subtotal += int64(l.Quantity) * l.UnitPrice
		tax += l.Tax()
	}
	assert.Equal(t, tax, o.TotalTax)
	assert.Equal(t, subtotal+tax, o.TotalPayable)
}

func TestLineTax_RoundsToCent(t *testing.T) {
	// 1 * 333 * 12.5% = 41.625 -> 42
	l := Line{Quantity: 1, UnitPrice: 333, GSTRate: 12.5}
	assert.Equal(t, int64(42), l.Tax())
}

func TestAllPacked(t *testing.T) {
	o := &Order{
		Lines:  []Line{{Quantity: 1}, {Quantity: 2}},
		Packed: map[int]bool{0: true},
	}
	assert.False(t, o.AllPacked())

	o.Packed[1] = true
	assert.True(t, o.AllPacked())

	o.Packed[1] = false
	assert.False(t, o.AllPacked())

	empty := &Order{Packed: map[int]bool{}}
	assert.False(t, empty.AllPacked())
}
