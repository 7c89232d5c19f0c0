package stock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateEmptySet(t *testing.T) {
	totals := Calculate(nil)
	require.EqualValues(t, 0, totals.CalculatedStock())
}

func TestCalculateSignedFormula(t *testing.T) {
	events := []LedgerEvent{
		{Kind: EventPurchase, Quantity: 12},
		{Kind: EventPurchase, Quantity: 8},
		{Kind: EventSale, Quantity: 15},
		{Kind: EventReturn, Quantity: 2},
		{Kind: EventRepairPart, Quantity: 4},
	}
	totals := Calculate(events)
	require.EqualValues(t, 20, totals.Purchased)
	require.EqualValues(t, 15, totals.Sold)
	require.EqualValues(t, 2, totals.Returned)
	require.EqualValues(t, 4, totals.UsedInRepairs)
	require.EqualValues(t, 3, totals.CalculatedStock())
}

func TestCalculateMissingQuantityCountsZero(t *testing.T) {
	// Legacy ledger rows without a quantity arrive as zero (the
	// repository coalesces NULL) and must not shift the total.
	events := []LedgerEvent{
		{Kind: EventPurchase, Quantity: 6},
		{Kind: EventPurchase, Quantity: 0},
		{Kind: EventSale, Quantity: 0},
		{Kind: EventRepairPart, Quantity: 0},
		{Kind: EventSale, Quantity: 2},
	}
	totals := Calculate(events)
	require.EqualValues(t, 6, totals.Purchased)
	require.EqualValues(t, 2, totals.Sold)
	require.EqualValues(t, 4, totals.CalculatedStock())
}

func TestCalculateGoesNegative(t *testing.T) {
	events := []LedgerEvent{
		{Kind: EventSale, Quantity: 9},
		{Kind: EventRepairPart, Quantity: 1},
	}
	require.EqualValues(t, -10, Calculate(events).CalculatedStock())
}

func TestCompareReportsDrift(t *testing.T) {
	totals := Totals{Purchased: 10, Sold: 3, UsedInRepairs: 2}
	breakdown := Compare(4, totals)
	require.EqualValues(t, 5, breakdown.CalculatedStock)
	require.EqualValues(t, 4, breakdown.CachedStock)
	require.EqualValues(t, -1, breakdown.Difference)
}

func TestResolveMatchesByIDOrName(t *testing.T) {
	identity := ProductIdentity{ID: 7, Name: "Bearing 608"}
	events := []LedgerEvent{
		{Kind: EventPurchase, ProductID: ptr(7), ProductName: "old name", Quantity: 1},
		{Kind: EventPurchase, ProductID: nil, ProductName: "Bearing 608", Quantity: 2},
		{Kind: EventPurchase, ProductID: ptr(9), ProductName: "Bearing 608", Quantity: 3},
		{Kind: EventPurchase, ProductID: ptr(9), ProductName: "bearing 608", Quantity: 4},
		{Kind: EventPurchase, ProductID: nil, ProductName: "", Quantity: 5},
	}
	matched := identity.Resolve(events)
	require.Len(t, matched, 3)

	res := identity.Classify(matched)
	require.Equal(t, 1, res.ByID)
	require.Equal(t, 2, res.ByNameOnly)
}
