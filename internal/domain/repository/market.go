package repository

import "strings"

// Market identifies which upstream universe an instrument belongs to.
type Market string

const (
	MarketKOSPI  Market = "KOSPI"
	MarketKOSDAQ Market = "KOSDAQ"
	MarketKONEX  Market = "KONEX"
	MarketUS     Market = "US"
)

// ClassifyMarket derives the market from a symbol suffix convention and
// returns the bare instrument code with the suffix stripped. Unrecognized
// suffixes fall through to the US quote provider.
func ClassifyMarket(symbol string) (Market, string) {
	switch {
	case strings.HasSuffix(symbol, ".KS"):
		return MarketKOSPI, strings.TrimSuffix(symbol, ".KS")
	case strings.HasSuffix(symbol, ".KQ"):
		return MarketKOSDAQ, strings.TrimSuffix(symbol, ".KQ")
	case strings.HasSuffix(symbol, ".KN"):
		return MarketKONEX, strings.TrimSuffix(symbol, ".KN")
	default:
		return MarketUS, symbol
	}
}

// IsExchangeMarket reports whether the market is served by the exchange
// trade-data sources rather than the quote provider.
func (m Market) IsExchangeMarket() bool {
	return m == MarketKOSPI || m == MarketKOSDAQ || m == MarketKONEX
}
