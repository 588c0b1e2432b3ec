package types

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/consensys/gnark-crypto/signature"
	"github.com/zachyo/compliant-asset-vault/crypto"
)

const ver = 0x01

// Address identifies an account on the host ledger.
type Address string

func EncodeAddress(payload []byte) Address {
	return Address("cv" + base58.CheckEncode(payload, ver))
}

func DecodeAddress(addr Address) ([]byte, error) {
	if !strings.HasPrefix(string(addr), "cv") {
		return nil, fmt.Errorf("wrong prefix: got(%s)", addr)
	}
	bz, _ver, err := base58.CheckDecode(string(addr)[2:])
	if err != nil {
		return nil, err
	}
	if _ver != ver {
		return nil, fmt.Errorf("wrong version: expected(%d), got(%d)", ver, _ver)
	}
	return bz, nil
}

func Pub2Addr(pubKey signature.PublicKey) Address {
	return EncodeAddress(pubKey.Bytes())
}

func Addr2Pub(addr Address) (signature.PublicKey, error) {
	pubKeyBytes, err := DecodeAddress(addr)
	if err != nil {
		return nil, err
	}
	pubKey := crypto.NewPub()
	if _, err := pubKey.SetBytes(pubKeyBytes); err != nil {
		return nil, err
	}
	return pubKey, nil
}

// Account is a keypair plus its derived ledger address.
type Account struct {
	Address    Address
	PrivateKey signature.Signer
}

func NewAccount() *Account {
	prvk, _ := crypto.NewKey()
	return &Account{
		Address:    Pub2Addr(prvk.Public()),
		PrivateKey: prvk,
	}
}

func (a *Account) PublicKey() *jubjub.PublicKey {
	return &a.PrivateKey.(*jubjub.PrivateKey).PublicKey
}
