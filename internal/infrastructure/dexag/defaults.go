package dexag

import "github.com/bimakw/dexag-provider/internal/domain/entities"

// AggregatorVenue is the aggregator's own routing venue. A requested venue
// that is not on the allowlist is substituted by this one.
const AggregatorVenue = "ag"

// DefaultSupportedDexes is the bundled venue allowlist, used when the
// supported-dexes fetch fails at startup.
var DefaultSupportedDexes = []string{
	AggregatorVenue,
	"uniswap",
	"kyber",
	"bancor",
	"oasis",
	"radar-relay",
	"synthetix",
	"curvefi",
	"zero_x",
}

// DefaultCurrencies is the bundled token list, used when the
// supported-currencies fetch fails at startup.
func DefaultCurrencies() *entities.TokenRegistry {
	return entities.DefaultRegistry()
}
