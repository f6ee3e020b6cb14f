package security

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

const (
	LOGIN_MESSAGE_TITLE = "TransferSafe Router Login"

	addressPrefix   = "Address: "
	chainIDPrefix   = "Chain ID: "
	timestampPrefix = "Timestamp: "
	noncePrefix     = "Nonce: "

	// clocks of wallets drift, accept messages slightly from the future
	maxClockSkew = time.Minute
)

var (
	ErrBadSignature    = errors.New("bad signature")
	ErrMalformedLogin  = errors.New("malformed login message")
	ErrWrongChain      = errors.New("login message is for another chain")
	ErrExpiredLogin    = errors.New("login message expired")
	ErrAddressMismatch = errors.New("signature does not belong to address")
)

// LoginMessage is the text a wallet signs with personal_sign to obtain a session.
type LoginMessage struct {
	Address   ethcommon.Address
	ChainID   int64
	Timestamp time.Time
	Nonce     string
}

func NewLoginMessage(address ethcommon.Address, chainID int64, now time.Time) LoginMessage {
	return LoginMessage{
		Address:   address,
		ChainID:   chainID,
		Timestamp: now.UTC().Truncate(time.Second),
		Nonce:     uuid.NewString(),
	}
}

func (m LoginMessage) String() string {
	return strings.Join([]string{
		LOGIN_MESSAGE_TITLE,
		addressPrefix + m.Address.Hex(),
		chainIDPrefix + strconv.FormatInt(m.ChainID, 10),
		timestampPrefix + m.Timestamp.UTC().Format(time.RFC3339),
		noncePrefix + m.Nonce,
	}, "\n")
}

func ParseLoginMessage(message string) (LoginMessage, error) {
	lines := strings.Split(strings.TrimSpace(message), "\n")
	if len(lines) != 5 || lines[0] != LOGIN_MESSAGE_TITLE {
		return LoginMessage{}, ErrMalformedLogin
	}
	result := LoginMessage{}
	for _, line := range lines[1:] {
		switch {
		case strings.HasPrefix(line, addressPrefix):
			value := strings.TrimPrefix(line, addressPrefix)
			if !ethcommon.IsHexAddress(value) {
				return LoginMessage{}, fmt.Errorf("%w: invalid address", ErrMalformedLogin)
			}
			result.Address = ethcommon.HexToAddress(value)
		case strings.HasPrefix(line, chainIDPrefix):
			chainID, err := strconv.ParseInt(strings.TrimPrefix(line, chainIDPrefix), 10, 64)
			if err != nil {
				return LoginMessage{}, fmt.Errorf("%w: invalid chain id", ErrMalformedLogin)
			}
			result.ChainID = chainID
		case strings.HasPrefix(line, timestampPrefix):
			timestamp, err := time.Parse(time.RFC3339, strings.TrimPrefix(line, timestampPrefix))
			if err != nil {
				return LoginMessage{}, fmt.Errorf("%w: invalid timestamp", ErrMalformedLogin)
			}
			result.Timestamp = timestamp
		case strings.HasPrefix(line, noncePrefix):
			result.Nonce = strings.TrimPrefix(line, noncePrefix)
		default:
			return LoginMessage{}, fmt.Errorf("%w: unexpected line %q", ErrMalformedLogin, line)
		}
	}
	if result.Address == (ethcommon.Address{}) || result.Nonce == "" || result.Timestamp.IsZero() {
		return LoginMessage{}, ErrMalformedLogin
	}
	return result, nil
}

// RecoverSigner returns the address that produced an EIP-191 personal_sign signature of message.
func RecoverSigner(message string, signature string) (ethcommon.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return ethcommon.Address{}, fmt.Errorf("%w: %s", ErrBadSignature, err.Error())
	}
	if len(sig) != crypto.SignatureLength {
		return ethcommon.Address{}, fmt.Errorf("%w: signature must be %d bytes, got %d", ErrBadSignature, crypto.SignatureLength, len(sig))
	}
	// wallets return v as 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return ethcommon.Address{}, fmt.Errorf("%w: %s", ErrBadSignature, err.Error())
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// SignLoginMessage signs message the way personal_sign does, v included as 27/28.
func SignLoginMessage(message string, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// VerifyLogin checks a signed login message against the router's chain id and the allowed age.
// The nonce is returned unconsumed; replay protection is up to the caller.
func VerifyLogin(message, signature string, chainID int64, maxAge time.Duration, now time.Time) (LoginMessage, error) {
	login, err := ParseLoginMessage(message)
	if err != nil {
		return LoginMessage{}, err
	}
	if login.ChainID != chainID {
		return LoginMessage{}, ErrWrongChain
	}
	age := now.Sub(login.Timestamp)
	if age < -maxClockSkew || age > maxAge {
		return LoginMessage{}, ErrExpiredLogin
	}
	signer, err := RecoverSigner(message, signature)
	if err != nil {
		return LoginMessage{}, err
	}
	if signer != login.Address {
		return LoginMessage{}, ErrAddressMismatch
	}
	return login, nil
}
