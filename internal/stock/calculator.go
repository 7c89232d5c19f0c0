package stock

// Calculate sums the resolved event set for one product. The sums are
// point-in-time totals; event dates carry no weight. An empty set
// yields all-zero totals.
func Calculate(events []LedgerEvent) Totals {
	var t Totals
	for _, ev := range events {
		switch ev.Kind {
		case EventPurchase:
			t.Purchased += ev.Quantity
		case EventSale:
			t.Sold += ev.Quantity
		case EventReturn:
			t.Returned += ev.Quantity
		case EventRepairPart:
			t.UsedInRepairs += ev.Quantity
		}
	}
	return t
}

// Compare produces the drift breakdown between the cached counter and
// the freshly calculated totals. It mutates nothing.
func Compare(cached int64, t Totals) Breakdown {
	calculated := t.CalculatedStock()
	return Breakdown{
		Purchased:       t.Purchased,
		Sold:            t.Sold,
		Returned:        t.Returned,
		UsedInRepairs:   t.UsedInRepairs,
		CalculatedStock: calculated,
		CachedStock:     cached,
		Difference:      cached - calculated,
	}
}
