// Package networth carries the valuation capability the stats gateway
// delegates to. The built-in appraiser only values liquid coins; a full
// item-level appraiser can replace it behind the same interface.
package networth

import (
	"context"
	"encoding/json"
	"errors"
)

type Appraiser struct{}

func New() *Appraiser { return &Appraiser{} }

type memberCoins struct {
	Currencies *struct {
		CoinPurse float64 `json:"coin_purse"`
	} `json:"currencies"`
}

// Networth values a member's purse and bank balance. The museum payload is
// accepted for interface compatibility; this appraiser does not price items.
func (a *Appraiser) Networth(_ context.Context, member, _ json.RawMessage, bankBalance float64) (float64, error) {
	if len(member) == 0 {
		return 0, errors.New("no member data")
	}
	var m memberCoins
	if err := json.Unmarshal(member, &m); err != nil {
		return 0, err
	}
	total := bankBalance
	if m.Currencies != nil {
		total += m.Currencies.CoinPurse
	}
	return total, nil
}
