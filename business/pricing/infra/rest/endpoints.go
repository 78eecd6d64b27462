package rest

import (
	"net/url"

	"github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

// tickerEndpoint maps an exchange-formatted pair to a request path and query.
type tickerEndpoint func(pair string) (path string, query map[string]string)

var tickerEndpoints = map[domain.Exchange]tickerEndpoint{
	domain.MEXC: func(pair string) (string, map[string]string) {
		return "/api/v3/ticker/price", map[string]string{"symbol": pair}
	},
	domain.Bitmart: func(pair string) (string, map[string]string) {
		return "/spot/v1/ticker", map[string]string{"symbol": pair}
	},
	domain.GateIO: func(pair string) (string, map[string]string) {
		return "/api/v4/spot/tickers", map[string]string{"currency_pair": pair}
	},
	domain.Poloniex: func(pair string) (string, map[string]string) {
		return "/markets/" + url.PathEscape(pair) + "/price", nil
	},
	domain.Binance: func(pair string) (string, map[string]string) {
		return "/api/v3/ticker/price", map[string]string{"symbol": pair}
	},
}
