package utils

import (
	"hash"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	_ "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	_ "github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
	gnark_hash "github.com/consensys/gnark-crypto/hash"
)

func MiMCHasher() hash.Hash {
	return gnark_hash.MIMC_BN254.New()
}

func MiMCHash(ins ...[]byte) []byte {
	return fieldHash(MiMCHasher(), ins...)
}

func Poseidon2Hasher() hash.Hash {
	return &fieldWrapper{
		inner: gnark_hash.POSEIDON2_BN254.New(),
	}
}

func Poseidon2Hash(ins ...[]byte) []byte {
	return fieldHash(Poseidon2Hasher(), ins...)
}

// Fr2Bytes returns the canonical 32-byte big-endian form of `v` reduced into
// the BN254 scalar field.
func Fr2Bytes(v *big.Int) []byte {
	var elem fr.Element
	elem.SetBigInt(v)
	bz := elem.Bytes()
	return bz[:]
}

func fieldHash(hasher hash.Hash, ins ...[]byte) []byte {
	blockSize := hasher.Size()

	hasher.Reset()
	for _, in := range ins {
		for i := 0; i < len(in); i += blockSize {
			end := i + blockSize
			if end > len(in) {
				end = len(in)
			}
			chunk := in[i:end]

			if len(chunk) == blockSize {
				// this value may be greater than the modulus; convert to fr.Element
				var elem fr.Element
				elem.SetBytes(chunk)
				// canonical form
				chunk = elem.Marshal()
			}
			if _, err := hasher.Write(chunk); err != nil {
				panic(err)
			}
		}
	}
	return hasher.Sum(nil)
}

// fieldWrapper reduces every 32-byte block into the Fr modulus before it
// reaches the inner Poseidon2 hasher, which requires canonical inputs.
type fieldWrapper struct {
	inner hash.Hash
}

func (w *fieldWrapper) Write(p []byte) (n int, err error) {
	const blockSize = fr.Bytes

	originalLen := len(p)
	for i := 0; i < len(p); i += blockSize {
		end := i + blockSize
		if end > len(p) {
			end = len(p)
		}
		chunk := p[i:end]

		var elem fr.Element
		elem.SetBytes(chunk)

		if _, err := w.inner.Write(elem.Marshal()); err != nil {
			return 0, err
		}
	}
	return originalLen, nil
}

func (w *fieldWrapper) Sum(b []byte) []byte {
	return w.inner.Sum(b)
}

func (w *fieldWrapper) Reset() {
	w.inner.Reset()
}

func (w *fieldWrapper) Size() int {
	return w.inner.Size()
}

func (w *fieldWrapper) BlockSize() int {
	return w.inner.BlockSize()
}
