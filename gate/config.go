package gate

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml"
)

type Configuration struct {
	Engine struct {
		Gatekeeper    string `toml:"gatekeeper"`
		Administrator string `toml:"administrator"`
	} `toml:"engine"`
	Token struct {
		URI string `toml:"uri"`
	} `toml:"token"`
	HTTP struct {
		Listen string `toml:"listen"`
	} `toml:"http"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(f, &conf)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(conf.Engine.Gatekeeper) {
		return nil, fmt.Errorf("invalid gatekeeper %s", conf.Engine.Gatekeeper)
	}
	if !common.IsHexAddress(conf.Engine.Administrator) {
		return nil, fmt.Errorf("invalid administrator %s", conf.Engine.Administrator)
	}
	if conf.HTTP.Listen == "" {
		conf.HTTP.Listen = ":7001"
	}
	return &conf, nil
}

func (conf *Configuration) Gatekeeper() common.Address {
	return common.HexToAddress(conf.Engine.Gatekeeper)
}

func (conf *Configuration) Administrator() common.Address {
	return common.HexToAddress(conf.Engine.Administrator)
}
