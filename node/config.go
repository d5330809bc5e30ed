package node

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	// database backend
	DBBackend string
	// database file path
	DBPath string
	// token name
	TokenName string
	// token ticker symbol
	TokenSymbol string
	// precision of token balances
	TokenDecimals int
	// genesis account holding the initial supply
	GenesisAccount string
	// total supply seeded into the genesis account
	GenesisSupply uint64
}

func NewConfig(v *viper.Viper) (*Config, error) {
	if v.GetString("db_backend") == "" {
		return nil, errors.New("db backend is empty")
	}
	if v.GetString("db_path") == "" {
		return nil, errors.New("db path is empty")
	}
	if v.GetString("token_name") == "" {
		return nil, errors.New("token name is empty")
	}
	if v.GetString("token_symbol") == "" {
		return nil, errors.New("token symbol is empty")
	}
	if v.GetInt("token_decimals") < 0 {
		return nil, errors.New("token decimals is negative")
	}
	if v.GetString("genesis_account") == "" {
		return nil, errors.New("genesis account is empty")
	}
	if v.GetInt64("genesis_supply") <= 0 {
		return nil, fmt.Errorf("genesis supply %d is invalid", v.GetInt64("genesis_supply"))
	}

	c := Config{
		DBBackend:      v.GetString("db_backend"),
		DBPath:         v.GetString("db_path"),
		TokenName:      v.GetString("token_name"),
		TokenSymbol:    v.GetString("token_symbol"),
		TokenDecimals:  v.GetInt("token_decimals"),
		GenesisAccount: v.GetString("genesis_account"),
		GenesisSupply:  v.GetUint64("genesis_supply"),
	}

	return &c, nil
}
