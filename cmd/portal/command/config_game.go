package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixil98/go-portal/internal/game"
)

const defaultCoinCost = 3

type GameConfig struct {
	// CoinCost nil means the default; an explicit 0 makes creation free.
	CoinCost      *int   `json:"coin_cost"`
	AdminPassHash string `json:"admin_pass_hash"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()

	if c.CoinCost != nil && *c.CoinCost < 0 {
		el.Add(fmt.Errorf("coin_cost must not be negative"))
	}
	if c.AdminPassHash != "" {
		if _, err := bcrypt.Cost([]byte(c.AdminPassHash)); err != nil {
			el.Add(fmt.Errorf("admin_pass_hash is not a bcrypt hash: %w", err))
		}
	}

	return el.Err()
}

func (c *GameConfig) SessionConfig() game.SessionConfig {
	cost := defaultCoinCost
	if c.CoinCost != nil {
		cost = *c.CoinCost
	}
	return game.SessionConfig{
		CoinCost:      cost,
		AdminPassHash: c.AdminPassHash,
	}
}
