package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jessevdk/go-flags"
)

const (
	keySubCmd  = "key"
	bodySubCmd = "body"
)

type keyConfig struct {
	PrivateKey string `short:"k" long:"privatekey" description:"Gatekeeper private key in hex" required:"true"`
	Collection uint64 `short:"c" long:"collection" description:"Collection index"`
	Nonce      string `short:"n" long:"nonce" description:"Key nonce in decimal" required:"true"`
	Claimant   string `short:"a" long:"claimant" description:"Claimant address" required:"true"`
}

type bodyConfig struct {
	PrivateKey string `short:"k" long:"privatekey" description:"Caller private key in hex" required:"true"`
	File       string `short:"f" long:"file" description:"Path to the request body" required:"true"`
}

func main() {
	parser := flags.NewParser(&struct{}{}, flags.PrintErrors|flags.HelpFlag)
	keyConf := &keyConfig{}
	parser.AddCommand(keySubCmd, "Sign an access key", "Signs (collection, nonce, claimant) as the gatekeeper", keyConf)
	bodyConf := &bodyConfig{}
	parser.AddCommand(bodySubCmd, "Sign a request body", "Prints the X-Signature header for a request body", bodyConf)

	_, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	var sig []byte
	switch parser.Command.Active.Name {
	case keySubCmd:
		sig, err = signKey(keyConf)
	case bodySubCmd:
		sig, err = signBody(bodyConf)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hexutil.Encode(sig))
}

func signKey(conf *keyConfig) ([]byte, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(conf.PrivateKey, "0x"))
	if err != nil {
		return nil, err
	}
	nonce, ok := new(big.Int).SetString(conf.Nonce, 10)
	if !ok {
		return nil, fmt.Errorf("invalid nonce %s", conf.Nonce)
	}
	if !common.IsHexAddress(conf.Claimant) {
		return nil, fmt.Errorf("invalid claimant %s", conf.Claimant)
	}
	return gate.SignAccessKey(key, conf.Collection, nonce, common.HexToAddress(conf.Claimant))
}

func signBody(conf *bodyConfig) ([]byte, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(conf.PrivateKey, "0x"))
	if err != nil {
		return nil, err
	}
	body, err := os.ReadFile(conf.File)
	if err != nil {
		return nil, err
	}
	return gate.SignMessage(key, body)
}
