package windows

import (
	"testing"

	"github.com/ManuGH/availwin/internal/rights"
	"github.com/stretchr/testify/assert"
)

func TestSortWindows_HoldAndStability(t *testing.T) {
	in := []rights.Window{
		{StartDate: 300, Contracts: []rights.WindowContract{{ContractID: 1}}},
		{StartDate: 100, OnHold: true, Contracts: []rights.WindowContract{{ContractID: 2}}},
		{StartDate: 200, Contracts: []rights.WindowContract{{ContractID: 3}}},
		{StartDate: 200, Contracts: []rights.WindowContract{{ContractID: 4}}},
	}

	got := SortWindows(in)

	var order []int64
	for _, w := range got {
		order = append(order, w.Contracts[0].ContractID)
	}
	assert.Equal(t, []int64{3, 4, 1, 2}, order)
	assert.Equal(t, int64(1), in[0].Contracts[0].ContractID, "input must not be reordered")
}

func TestSortKey(t *testing.T) {
	assert.Equal(t, int64(5), SortKey(rights.Window{StartDate: 5, EndDate: 10}))
	assert.Equal(t, 5+HoldOffset, SortKey(rights.Window{StartDate: 5, EndDate: 10, OnHold: true}))
	assert.Equal(t, int64(31_536_000_000_000), HoldOffset)
}

func TestRoundDate(t *testing.T) {
	tests := []struct {
		in, want int64
	}{
		{0, 0},
		{999, 0},
		{1000, 1000},
		{1999, 1000},
		{-1, -1000},
		{t0 + 1234, t0 + 1000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundDate(tt.in), "RoundDate(%d)", tt.in)
	}
}

func TestOutputDates_OffsetOnce(t *testing.T) {
	raw := rights.Window{StartDate: 1500, EndDate: 2500, OnHold: true}
	start, end := OutputDates(raw)
	assert.Equal(t, 1000+HoldOffset, start)
	assert.Equal(t, 2000+HoldOffset, end)
	assert.Equal(t, int64(1500), raw.StartDate)

	start, end = OutputDates(rights.Window{StartDate: 1500, EndDate: 2500})
	assert.Equal(t, int64(1000), start)
	assert.Equal(t, int64(2000), end)
}
