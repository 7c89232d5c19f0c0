package stock

// Matching is inclusive: an event belongs to a product when either
// criterion holds, so a row with a foreign product id but a matching
// name is still attributed by name. Name comparison is byte equality
// exactly as recorded; normalising case or whitespace would silently
// re-attribute historical rows, so it is deliberately not done here.

// MatchesID reports whether the event carries the product's id.
func (p ProductIdentity) MatchesID(ev LedgerEvent) bool {
	return ev.ProductID != nil && *ev.ProductID == p.ID
}

// MatchesName reports whether the event's recorded name equals the
// product's current name.
func (p ProductIdentity) MatchesName(ev LedgerEvent) bool {
	return ev.ProductName != "" && ev.ProductName == p.Name
}

// Matches evaluates the OR of both criteria.
func (p ProductIdentity) Matches(ev LedgerEvent) bool {
	return p.MatchesID(ev) || p.MatchesName(ev)
}

// Resolve filters the events attributable to the product.
func (p ProductIdentity) Resolve(events []LedgerEvent) []LedgerEvent {
	var matched []LedgerEvent
	for _, ev := range events {
		if p.Matches(ev) {
			matched = append(matched, ev)
		}
	}
	return matched
}

// Resolution summarises which criterion attributed each event, so
// name-only attribution (the ambiguous case) stays observable.
type Resolution struct {
	ByID       int
	ByNameOnly int
}

// Classify tallies match criteria over an already-resolved event set.
func (p ProductIdentity) Classify(events []LedgerEvent) Resolution {
	var res Resolution
	for _, ev := range events {
		if p.MatchesID(ev) {
			res.ByID++
		} else if p.MatchesName(ev) {
			res.ByNameOnly++
		}
	}
	return res
}
