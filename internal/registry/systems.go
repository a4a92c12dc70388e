package registry

import "github.com/roach88/dasha/internal/period"

// Registry identifiers of the built-in systems.
const (
	SystemVimshottari   = "vimshottari"
	SystemAshtottari    = "ashtottari"
	SystemYogini        = "yogini"
	SystemShodashottari = "shodashottari"
)

// defaultMaxDepth is the deepest nesting level the built-in systems
// define: mahadasha, antardasha, pratyantardasha, sookshma, prana.
const defaultMaxDepth = 5

// Built-in cycle tables. Shares are the canonical integer year counts;
// each table's shares sum exactly to the cycle total (enforced by
// mustDefinition at init).
var (
	// vimshottari: the 120-year nine-body cycle.
	vimshottari = mustDefinition(SystemVimshottari, 120, defaultMaxDepth, []Share{
		{period.Ketu, years(7)},
		{period.Venus, years(20)},
		{period.Sun, years(6)},
		{period.Moon, years(10)},
		{period.Mars, years(7)},
		{period.Rahu, years(18)},
		{period.Jupiter, years(16)},
		{period.Saturn, years(19)},
		{period.Mercury, years(17)},
	})

	// ashtottari: the 108-year eight-body cycle (no Ketu).
	ashtottari = mustDefinition(SystemAshtottari, 108, defaultMaxDepth, []Share{
		{period.Sun, years(6)},
		{period.Moon, years(15)},
		{period.Mars, years(8)},
		{period.Mercury, years(17)},
		{period.Saturn, years(10)},
		{period.Jupiter, years(19)},
		{period.Rahu, years(12)},
		{period.Venus, years(21)},
	})

	// yogini: the 36-year eight-body cycle with arithmetic shares 1..8.
	yogini = mustDefinition(SystemYogini, 36, defaultMaxDepth, []Share{
		{period.Moon, years(1)},
		{period.Sun, years(2)},
		{period.Jupiter, years(3)},
		{period.Mars, years(4)},
		{period.Mercury, years(5)},
		{period.Saturn, years(6)},
		{period.Venus, years(7)},
		{period.Rahu, years(8)},
	})

	// shodashottari: the 116-year eight-body cycle (no Rahu).
	shodashottari = mustDefinition(SystemShodashottari, 116, defaultMaxDepth, []Share{
		{period.Sun, years(11)},
		{period.Mars, years(12)},
		{period.Jupiter, years(13)},
		{period.Saturn, years(14)},
		{period.Ketu, years(15)},
		{period.Moon, years(16)},
		{period.Mercury, years(17)},
		{period.Venus, years(18)},
	})
)

// builtins lists the compiled-in systems in registration order.
var builtins = []*CycleDefinition{vimshottari, ashtottari, yogini, shodashottari}
