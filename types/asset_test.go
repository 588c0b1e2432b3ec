package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestAssetRecordRLP(t *testing.T) {
	rec := &AssetRecord{
		ID:            7,
		Owner:         NewAccount().Address,
		ContentURI:    "ipfs://QmAssetDescription",
		Regulated:     true,
		Category:      "Invoice",
		DeclaredValue: uint256.MustFromDecimal("100000000000000000000000"),
		Metadata:      []byte(`{"issuer":"acme"}`),
	}

	var decoded AssetRecord
	require.NoError(t, rlp.DecodeBytes(rec.Bytes(), &decoded))
	require.Equal(t, rec.ID, decoded.ID)
	require.Equal(t, rec.Owner, decoded.Owner)
	require.Equal(t, rec.ContentURI, decoded.ContentURI)
	require.Equal(t, rec.Regulated, decoded.Regulated)
	require.Equal(t, rec.Category, decoded.Category)
	require.Equal(t, rec.DeclaredValue, decoded.DeclaredValue)
	require.Equal(t, rec.Metadata, decoded.Metadata)
}

func TestAssetRecordDigest(t *testing.T) {
	rec := &AssetRecord{
		Owner:         NewAccount().Address,
		ContentURI:    "ipfs://a",
		Category:      "RealEstate",
		DeclaredValue: uint256.NewInt(1000),
	}

	d0 := rec.Digest()
	require.Equal(t, d0, rec.Digest())

	other := rec.Clone()
	other.DeclaredValue = uint256.NewInt(1001)
	require.NotEqual(t, d0, other.Digest())
}

func TestAssetRecordCloneIsolation(t *testing.T) {
	rec := &AssetRecord{
		Owner:         NewAccount().Address,
		DeclaredValue: uint256.NewInt(5),
		Metadata:      []byte{1, 2, 3},
	}

	cp := rec.Clone()
	cp.DeclaredValue.SetUint64(9)
	cp.Metadata[0] = 0xff

	require.Equal(t, uint256.NewInt(5), rec.DeclaredValue)
	require.Equal(t, byte(1), rec.Metadata[0])
}
