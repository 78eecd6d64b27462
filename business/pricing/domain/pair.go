package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

// FormatPair renders asset/counterpart in the exchange's symbol convention.
// Both sides are upper-cased and trimmed and a "/..." suffix on the asset is
// dropped. An empty counterpart defaults to USDT.
func FormatPair(exchange Exchange, rawAsset, counterpart string) (string, error) {
	if !exchange.Valid() {
		return "", apperror.UnknownExchange(string(exchange))
	}

	base, err := asset.Normalize(rawAsset)
	if err != nil {
		return "", err
	}

	quote := strings.ToUpper(strings.TrimSpace(counterpart))
	if quote == "" {
		quote = DefaultCounterpart
	}

	return string(base) + exchange.pairSeparator() + quote, nil
}

// Wire payloads. Only the fields used for price extraction are decoded.

type mexcTicker struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
	Code   *int   `json:"code"`
	Msg    string `json:"msg"`
}

type bitmartTickerResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Tickers []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"last_price"`
		} `json:"tickers"`
	} `json:"data"`
}

type gateioTicker struct {
	CurrencyPair string `json:"currency_pair"`
	Last         string `json:"last"`
}

type gateioError struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

type poloniexPrice struct {
	Symbol  string `json:"symbol"`
	Price   string `json:"price"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type binanceTicker struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
}

const (
	bitmartOK              = 1000
	poloniexSymbolNotFound = 21105
	binanceInvalidSymbol   = -1121
	gateioInvalidPair      = "INVALID_CURRENCY_PAIR"
)

// ParsePrice extracts the last traded price from an exchange ticker payload.
// Unknown pairs yield UNKNOWN_PAIR, API error bodies EXCHANGE_API_ERROR, and
// anything that is not a positive finite number INVALID_PRICE.
func ParsePrice(exchange Exchange, raw []byte) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero, apperror.InvalidPrice(fmt.Sprintf("%s: empty response", exchange))
	}

	switch exchange {
	case MEXC:
		return parseMEXC(raw)
	case Bitmart:
		return parseBitmart(raw)
	case GateIO:
		return parseGateIO(raw)
	case Poloniex:
		return parsePoloniex(raw)
	case Binance:
		return parseBinance(raw)
	default:
		return decimal.Zero, apperror.UnknownExchange(string(exchange))
	}
}

// ValidatePrice parses a decimal string and rejects non-positive values.
// decimal.NewFromString refuses NaN and Inf, so those fail parsing.
func ValidatePrice(exchange Exchange, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeInvalidPrice,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s: %q", exchange, value)))
	}
	if !d.IsPositive() {
		return decimal.Zero, apperror.InvalidPrice(fmt.Sprintf("%s: %s", exchange, d.String()))
	}
	return d, nil
}

func parseMEXC(raw []byte) (decimal.Decimal, error) {
	var ticker mexcTicker
	if raw[0] == '[' {
		var list []mexcTicker
		if err := json.Unmarshal(raw, &list); err != nil {
			return decimal.Zero, malformed(MEXC, err)
		}
		if len(list) == 0 {
			return decimal.Zero, apperror.UnknownPair("MEXC: empty ticker list")
		}
		ticker = list[0]
	} else if err := json.Unmarshal(raw, &ticker); err != nil {
		return decimal.Zero, malformed(MEXC, err)
	}

	if ticker.Code != nil {
		if strings.Contains(strings.ToLower(ticker.Msg), "invalid symbol") {
			return decimal.Zero, apperror.UnknownPair("MEXC: " + ticker.Msg)
		}
		return decimal.Zero, apiError(MEXC, ticker.Msg)
	}
	return ValidatePrice(MEXC, ticker.Price)
}

func parseBitmart(raw []byte) (decimal.Decimal, error) {
	var resp bitmartTickerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return decimal.Zero, malformed(Bitmart, err)
	}

	if resp.Code != bitmartOK {
		if strings.Contains(strings.ToLower(resp.Message), "symbol not found") {
			return decimal.Zero, apperror.UnknownPair("Bitmart: " + resp.Message)
		}
		return decimal.Zero, apiError(Bitmart, fmt.Sprintf("code %d: %s", resp.Code, resp.Message))
	}
	if len(resp.Data.Tickers) == 0 {
		return decimal.Zero, apperror.UnknownPair("Bitmart: no ticker data")
	}
	return ValidatePrice(Bitmart, resp.Data.Tickers[0].LastPrice)
}

func parseGateIO(raw []byte) (decimal.Decimal, error) {
	if raw[0] != '[' {
		var e gateioError
		if err := json.Unmarshal(raw, &e); err != nil {
			return decimal.Zero, malformed(GateIO, err)
		}
		if e.Label == gateioInvalidPair {
			return decimal.Zero, apperror.UnknownPair("Gate.io: " + e.Message)
		}
		return decimal.Zero, apiError(GateIO, e.Label+": "+e.Message)
	}

	var list []gateioTicker
	if err := json.Unmarshal(raw, &list); err != nil {
		return decimal.Zero, malformed(GateIO, err)
	}
	if len(list) == 0 {
		return decimal.Zero, apperror.UnknownPair("Gate.io: no ticker data")
	}
	return ValidatePrice(GateIO, list[0].Last)
}

func parsePoloniex(raw []byte) (decimal.Decimal, error) {
	var resp poloniexPrice
	if err := json.Unmarshal(raw, &resp); err != nil {
		return decimal.Zero, malformed(Poloniex, err)
	}

	switch {
	case resp.Code == poloniexSymbolNotFound:
		return decimal.Zero, apperror.UnknownPair("Poloniex: " + resp.Message)
	case resp.Code != 0:
		return decimal.Zero, apiError(Poloniex, fmt.Sprintf("code %d: %s", resp.Code, resp.Message))
	}
	return ValidatePrice(Poloniex, resp.Price)
}

func parseBinance(raw []byte) (decimal.Decimal, error) {
	var resp binanceTicker
	if err := json.Unmarshal(raw, &resp); err != nil {
		return decimal.Zero, malformed(Binance, err)
	}

	switch {
	case resp.Code == binanceInvalidSymbol:
		return decimal.Zero, apperror.UnknownPair("Binance: " + resp.Msg)
	case resp.Code != 0:
		return decimal.Zero, apiError(Binance, fmt.Sprintf("code %d: %s", resp.Code, resp.Msg))
	}
	return ValidatePrice(Binance, resp.Price)
}

func malformed(exchange Exchange, err error) error {
	return apperror.New(apperror.CodeInvalidFormat,
		apperror.WithCause(err),
		apperror.WithContext(fmt.Sprintf("%s: malformed ticker payload", exchange)),
		apperror.WithStatusCode(http.StatusBadGateway))
}

func apiError(exchange Exchange, msg string) error {
	return apperror.New(apperror.CodeExchangeAPIError,
		apperror.WithContext(fmt.Sprintf("%s: %s", exchange, msg)))
}
