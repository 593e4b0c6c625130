// Package marketdata provides deterministic mock prices. There is no live
// market feed; prices are derived from a fixed base table with a stable
// per-symbol variation so every run and every test sees the same numbers.
package marketdata

import "hash/fnv"

// BasePrices is the reference price table for the default symbol universe.
var BasePrices = map[string]float64{
	"AAPL":  150.00,
	"MSFT":  300.00,
	"GOOGL": 140.00,
	"AMZN":  170.00,
	"TSLA":  180.00,
	"NVDA":  120.00,
	"META":  350.00,
	"BRK.B": 400.00,
	"JPM":   150.00,
	"V":     250.00,
}

// DefaultSymbols returns the default symbol universe in a stable order.
func DefaultSymbols() []string {
	return []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META", "BRK.B", "JPM", "V"}
}

// BasePrice returns the reference price for symbol, defaulting to $100 for
// symbols outside the table.
func BasePrice(symbol string) float64 {
	if p, ok := BasePrices[symbol]; ok {
		return p
	}
	return 100.00
}

// Price returns the mock market price for symbol: the base price plus a
// stable 0-10% variation keyed on the symbol name.
func Price(symbol string) float64 {
	base := BasePrice(symbol)
	return round2(base + base*variation(symbol)*0.10)
}

// Prices returns mock prices for all given symbols.
func Prices(symbols []string) map[string]float64 {
	out := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		out[s] = Price(s)
	}
	return out
}

// variation maps a symbol to a stable value in [0, 1).
func variation(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return float64(h.Sum32()%100) / 100.0
}

func round2(x float64) float64 {
	return float64(int64(x*100+0.5)) / 100
}
