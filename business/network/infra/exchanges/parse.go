package exchanges

import (
	"encoding/json"
	"strings"

	"github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// currencyTable maps an upper-cased coin to its enabled networks.
type currencyTable map[string]domain.NetworkSet

type chainFlags struct {
	name     string
	deposit  bool
	withdraw bool
}

func (t currencyTable) add(coin string, chains []chainFlags) {
	set := domain.NetworkSet{Deposit: []string{}, Withdrawal: []string{}}
	for _, c := range chains {
		if c.name == "" {
			continue
		}
		if c.deposit {
			set.Deposit = append(set.Deposit, c.name)
		}
		if c.withdraw {
			set.Withdrawal = append(set.Withdrawal, c.name)
		}
	}
	t[strings.ToUpper(strings.TrimSpace(coin))] = set
}

type mexcCoin struct {
	Coin        string `json:"coin"`
	NetworkList []struct {
		Network        string `json:"network"`
		DepositEnable  bool   `json:"depositEnable"`
		WithdrawEnable bool   `json:"withdrawEnable"`
	} `json:"networkList"`
}

func parseMEXC(body []byte) (currencyTable, error) {
	var coins []mexcCoin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, malformed(pricing.MEXC, err, body)
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

type bitmartCurrency struct {
	Currency    string `json:"currency"`
	NetworkList []struct {
		Name            string `json:"name"`
		DepositEnabled  bool   `json:"deposit_enabled"`
		WithdrawEnabled bool   `json:"withdraw_enabled"`
	} `json:"network_list"`
}

// Bitmart wraps the list as {"data":{"currencies":[...]}}; a bare
// {"currencies":[...]} is accepted too.
func parseBitmart(body []byte) (currencyTable, error) {
	var resp struct {
		Code       int               `json:"code"`
		Message    string            `json:"message"`
		Currencies []bitmartCurrency `json:"currencies"`
		Data       struct {
			Currencies []bitmartCurrency `json:"currencies"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformed(pricing.Bitmart, err, body)
	}
	if resp.Code != 0 && resp.Code != 1000 {
		return nil, apperror.New(apperror.CodeExchangeAPIError,
			apperror.WithContext("Bitmart currencies: "+resp.Message))
	}

	currencies := resp.Data.Currencies
	if len(currencies) == 0 {
		currencies = resp.Currencies
	}

	t := make(currencyTable, len(currencies))
	for _, c := range currencies {
		chains := make([]chainFlags, 0, len(c.NetworkList))
		for _, n := range c.NetworkList {
			chains = append(chains, chainFlags{n.Name, n.DepositEnabled, n.WithdrawEnabled})
		}
		t.add(c.Currency, chains)
	}
	return t, nil
}

type gateCurrency struct {
	Currency string `json:"currency"`
	Chains   []struct {
		Name           string `json:"name"`
		Chain          string `json:"chain"`
		DepositEnable  *bool  `json:"deposit_enable"`
		WithdrawEnable *bool  `json:"withdraw_enable"`
		// Gate.io also reports the inverse flags on some payloads.
		DepositDisabled  bool `json:"deposit_disabled"`
		WithdrawDisabled bool `json:"withdraw_disabled"`
	} `json:"chains"`
}

func parseGateIO(body []byte) (currencyTable, error) {
	var currencies []gateCurrency
	if err := json.Unmarshal(body, &currencies); err != nil {
		return nil, malformed(pricing.GateIO, err, body)
	}
	t := make(currencyTable, len(currencies))
	for _, c := range currencies {
		chains := make([]chainFlags, 0, len(c.Chains))
		for _, n := range c.Chains {
			name := n.Chain
			if name == "" {
				name = n.Name
			}
			deposit := !n.DepositDisabled
			if n.DepositEnable != nil {
				deposit = *n.DepositEnable
			}
			withdraw := !n.WithdrawDisabled
			if n.WithdrawEnable != nil {
				withdraw = *n.WithdrawEnable
			}
			chains = append(chains, chainFlags{name, deposit, withdraw})
		}
		t.add(c.Currency, chains)
	}
	return t, nil
}

type poloniexCurrency struct {
	Currency string `json:"currency"`
	Networks []struct {
		Network        string `json:"network"`
		DepositEnable  bool   `json:"depositEnable"`
		WithdrawEnable bool   `json:"withdrawEnable"`
	} `json:"networks"`
}

func parsePoloniex(body []byte) (currencyTable, error) {
	var currencies []poloniexCurrency
	if err := json.Unmarshal(body, &currencies); err != nil {
		return nil, malformed(pricing.Poloniex, err, body)
	}
	t := make(currencyTable, len(currencies))
	for _, c := range currencies {
		chains := make([]chainFlags, 0, len(c.Networks))
		for _, n := range c.Networks {
			chains = append(chains, chainFlags{n.Network, n.DepositEnable, n.WithdrawEnable})
		}
		t.add(c.Currency, chains)
	}
	return t, nil
}

func malformed(exchange pricing.Exchange, err error, body []byte) error {
	snippet := string(body)
	if len(snippet) > 128 {
		snippet = snippet[:128] + "..."
	}
	return apperror.New(apperror.CodeInvalidFormat,
		apperror.WithCause(err),
		apperror.WithStatusCode(502),
		apperror.WithContext(string(exchange)+" currencies: "+snippet))
}
