package exchanges

import (
	"context"
	"net/http"

	gbinance "github.com/adshao/go-binance/v2"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// newBinanceFetcher reads coin networks from the signed capital config
// endpoint. Without credentials it reports an empty table, which callers see
// as "data unavailable".
func newBinanceFetcher(cfg Endpoint) fetchFunc {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return func(context.Context) (currencyTable, error) {
			return currencyTable{}, nil
		}
	}

	client := gbinance.NewClient(cfg.APIKey, cfg.APISecret)
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	client.HTTPClient = &http.Client{Timeout: timeout}

	return func(ctx context.Context) (currencyTable, error) {
		coins, err := client.NewGetAllCoinsInfoService().Do(ctx)
		if err != nil {
			return nil, apperror.New(apperror.CodeExchangeAPIError,
				apperror.WithCause(err),
				apperror.WithContext("Binance coin info"))
		}

		t := make(currencyTable, len(coins))
		for _, c := range coins {
			chains := make([]chainFlags, 0, len(c.NetworkList))
			for _, n := range c.NetworkList {
				chains = append(chains, chainFlags{n.Network, n.DepositEnable, n.WithdrawEnable})
			}
			t.add(c.Coin, chains)
		}
		return t, nil
	}
}
