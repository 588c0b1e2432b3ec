package types

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/zachyo/compliant-asset-vault/utils"
)

// AssetRecord is the on-ledger entry of a tokenized real-world asset.
// Category and DeclaredValue are caller-asserted at mint time and never
// validated against an external source; Metadata is an opaque blob owned by
// off-chain tooling.
type AssetRecord struct {
	ID            uint64
	Owner         Address
	ContentURI    string
	Regulated     bool
	Category      string
	DeclaredValue *uint256.Int
	Metadata      []byte
}

func (ar *AssetRecord) Clone() *AssetRecord {
	cp := *ar
	cp.DeclaredValue = new(uint256.Int).Set(ar.DeclaredValue)
	cp.Metadata = append([]byte(nil), ar.Metadata...)
	return &cp
}

// Bytes returns the RLP-encoded representation of the record.
// It panics if the encoding fails.
func (ar *AssetRecord) Bytes() []byte {
	b, err := rlp.EncodeToBytes(ar)
	if err != nil {
		panic(fmt.Sprintf("failed to RLP encode AssetRecord: %v", err))
	}
	return b
}

// Digest is a MiMC hash over the encoded record, usable as a stable
// content identifier by off-chain indexers.
func (ar *AssetRecord) Digest() []byte {
	return utils.MiMCHash(ar.Bytes())
}

// EncodeRLP implements the rlp.Encoder interface.
func (ar *AssetRecord) EncodeRLP(w *bytes.Buffer) error {
	return rlp.Encode(w, []interface{}{
		ar.ID,
		string(ar.Owner),
		ar.ContentURI,
		ar.Regulated,
		ar.Category,
		ar.DeclaredValue.ToBig(),
		ar.Metadata,
	})
}

// DecodeRLP implements the rlp.Decoder interface.
func (ar *AssetRecord) DecodeRLP(s *rlp.Stream) error {
	var temp struct {
		ID            uint64
		Owner         string
		ContentURI    string
		Regulated     bool
		Category      string
		DeclaredValue *big.Int
		Metadata      []byte
	}

	if err := s.Decode(&temp); err != nil {
		return err
	}

	value, overflow := uint256.FromBig(temp.DeclaredValue)
	if overflow {
		return fmt.Errorf("declared value overflows uint256")
	}

	ar.ID = temp.ID
	ar.Owner = Address(temp.Owner)
	ar.ContentURI = temp.ContentURI
	ar.Regulated = temp.Regulated
	ar.Category = temp.Category
	ar.DeclaredValue = value
	ar.Metadata = temp.Metadata

	return nil
}
