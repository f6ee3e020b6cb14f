package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	flags "github.com/jessevdk/go-flags"
	"github.com/transfersafe/router/lib/security"
)

// Prints a signed login request body for POST /v2/auth, useful for
// trying the API locally with curl.
type options struct {
	PrivateKey string `short:"k" long:"key" description:"Hex encoded secp256k1 private key; a new key is generated when empty"`
	ChainID    int64  `short:"c" long:"chainid" default:"80001" description:"Chain id the router is deployed for"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	key, err := loadKey(opts.PrivateKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	address := crypto.PubkeyToAddress(key.PublicKey)

	message := security.NewLoginMessage(address, opts.ChainID, time.Now()).String()
	signature, err := security.SignLoginMessage(message, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Println("address:", address.Hex())
	if opts.PrivateKey == "" {
		fmt.Println("key:    ", hexutil.Encode(crypto.FromECDSA(key)))
	}
	body, _ := json.MarshalIndent(map[string]string{
		"message":   message,
		"signature": signature,
	}, "", "  ")
	fmt.Println(string(body))
}

func loadKey(hexKey string) (*ecdsa.PrivateKey, error) {
	if hexKey == "" {
		return crypto.GenerateKey()
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
