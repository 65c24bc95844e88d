package pricing

import "strings"

// Matcher resolves free-text listing names to market commodities.
// The alias table is injected so tests can substitute a minimal one.
type Matcher struct {
	table AliasTable
}

// NewMatcher creates a matcher with the given alias table.
func NewMatcher(table AliasTable) *Matcher {
	return &Matcher{table: table}
}

// Match maps a seller-entered listing name to a commodity from the feed.
// Returns nil when nothing matches - an expected, frequent outcome, not an
// error. Callers must skip the listing silently.
//
// Resolution is deterministic and order-sensitive: alias entries are scanned
// in table order and the first hit wins; no best-match heuristic is applied.
func (m *Matcher) Match(listingName string, commodities []MarketCommodity) *MarketCommodity {
	name := strings.ToLower(strings.TrimSpace(listingName))
	if name == "" || len(commodities) == 0 {
		return nil
	}

	// Pass 1: alias table. A bidirectional substring test handles both
	// "Organic Tomatoes" containing "tomatoes" and the short form "tomate"
	// being contained by the alias list.
	for _, entry := range m.table {
		if !matchesAnyAlias(name, entry.Aliases) {
			continue
		}
		if c := findByKey(entry.Key, commodities); c != nil {
			return c
		}
		// Alias hit but the feed carries no such commodity this run;
		// keep scanning the remaining entries.
	}

	// Pass 2: direct substring fallback for names no alias bucket covers.
	// First match in feed order wins, at the cost of precision for short
	// generic names.
	for i := range commodities {
		cName := strings.ToLower(commodities[i].Name)
		cSymbol := strings.ToLower(commodities[i].Symbol)
		if strings.Contains(cName, name) || strings.Contains(name, cName) ||
			(cSymbol != "" && strings.Contains(cSymbol, name)) {
			return &commodities[i]
		}
	}

	return nil
}

// matchesAnyAlias reports whether the normalized name matches any alias in
// either direction.
func matchesAnyAlias(name string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(name, alias) || strings.Contains(alias, name) {
			return true
		}
	}
	return false
}

// findByKey returns the first commodity whose name or symbol contains the
// canonical key.
func findByKey(key string, commodities []MarketCommodity) *MarketCommodity {
	for i := range commodities {
		if strings.Contains(strings.ToLower(commodities[i].Name), key) ||
			strings.Contains(strings.ToLower(commodities[i].Symbol), key) {
			return &commodities[i]
		}
	}
	return nil
}
