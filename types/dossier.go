package types

import (
	"bytes"
	"fmt"
	"math/big"

	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/consensys/gnark-crypto/signature"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/zachyo/compliant-asset-vault/crypto"
)

// Dossier is the off-chain description of a tokenized asset. Its sealed form
// is what a minter places into an AssetRecord's opaque Metadata blob so that
// only the custodian can read the underlying paperwork.
type Dossier struct {
	Category      string
	DeclaredValue *uint256.Int
	ContentURI    string
	Notes         []byte
}

// Bytes returns the RLP-encoded representation of the Dossier.
// It panics if the encoding fails.
func (d *Dossier) Bytes() []byte {
	b, err := rlp.EncodeToBytes(d)
	if err != nil {
		panic(fmt.Sprintf("failed to RLP encode Dossier: %v", err))
	}
	return b
}

// EncodeRLP implements the rlp.Encoder interface.
func (d *Dossier) EncodeRLP(w *bytes.Buffer) error {
	return rlp.Encode(w, []interface{}{
		d.Category,
		d.DeclaredValue.ToBig(),
		d.ContentURI,
		d.Notes,
	})
}

// DecodeRLP implements the rlp.Decoder interface.
func (d *Dossier) DecodeRLP(s *rlp.Stream) error {
	var temp struct {
		Category      string
		DeclaredValue *big.Int
		ContentURI    string
		Notes         []byte
	}

	if err := s.Decode(&temp); err != nil {
		return err
	}

	value, overflow := uint256.FromBig(temp.DeclaredValue)
	if overflow {
		return fmt.Errorf("declared value overflows uint256")
	}

	d.Category = temp.Category
	d.DeclaredValue = value
	d.ContentURI = temp.ContentURI
	d.Notes = temp.Notes

	return nil
}

// SealDossier encrypts the dossier to the custodian's public key.
func SealDossier(d *Dossier, custodian signature.PublicKey) ([]byte, error) {
	pub, ok := custodian.(*jubjub.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected public key type %T", custodian)
	}
	return crypto.SealToPub(pub, d.Bytes())
}

// OpenDossier decrypts a sealed dossier with the custodian's key.
func OpenDossier(blob []byte, custodian signature.Signer) (*Dossier, error) {
	prv, ok := custodian.(*jubjub.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unexpected private key type %T", custodian)
	}
	plaintext, err := crypto.OpenSealed(prv, blob)
	if err != nil {
		return nil, err
	}

	d := new(Dossier)
	if err := rlp.DecodeBytes(plaintext, d); err != nil {
		return nil, err
	}
	return d, nil
}
