package gate

import (
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AccessKeyMessageSize is the length of the packed claim signed by the gatekeeper.
const AccessKeyMessageSize = 32 + 32 + common.AddressLength

// AccessKeyMessage packs a claim the way the gatekeeper signs it:
// uint256(collection) || uint256(nonce) || claimant, all big endian.
func AccessKeyMessage(collection uint64, nonce *big.Int, claimant common.Address) ([]byte, error) {
	if nonce == nil || nonce.Sign() < 0 || nonce.BitLen() > 256 {
		return nil, fmt.Errorf("%w: nonce %v", ErrInvalidAccessKey, nonce)
	}
	msg := make([]byte, AccessKeyMessageSize)
	binary.BigEndian.PutUint64(msg[24:32], collection)
	nonce.FillBytes(msg[32:64])
	copy(msg[64:], claimant.Bytes())
	return msg, nil
}

// RecoverSigner returns the address that produced a personal message signature.
func RecoverSigner(message, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length %d", len(signature))
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func SignMessage(key *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

func SignAccessKey(key *ecdsa.PrivateKey, collection uint64, nonce *big.Int, claimant common.Address) ([]byte, error) {
	msg, err := AccessKeyMessage(collection, nonce, claimant)
	if err != nil {
		return nil, err
	}
	return SignMessage(key, msg)
}

// VerifyAccessKey checks that signature is the gatekeeper's authorization
// for claimant to redeem (collection, nonce).
func VerifyAccessKey(gatekeeper common.Address, collection uint64, nonce *big.Int, claimant common.Address, signature []byte) error {
	msg, err := AccessKeyMessage(collection, nonce, claimant)
	if err != nil {
		return err
	}
	signer, err := RecoverSigner(msg, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAccessKey, err)
	}
	if signer != gatekeeper {
		return ErrInvalidAccessKey
	}
	return nil
}
