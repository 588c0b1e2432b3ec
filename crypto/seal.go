package crypto

import (
	"fmt"

	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"golang.org/x/crypto/chacha20poly1305"
)

const ephPubKeySize = 32

// Seal encrypts a plaintext using the ChaCha20-Poly1305 AEAD scheme.
// The nonce must be unique for each encryption with the same key; the
// additional data is authenticated but not encrypted.
func Seal(key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid key size: must be %d bytes", chacha20poly1305.KeySize)
	}
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("invalid nonce size: must be %d bytes", chacha20poly1305.NonceSize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 AEAD: %w", err)
	}

	return aead.Seal(nil, nonce, plaintext, additionalData), nil
}

// Open decrypts a ciphertext produced by Seal. A failure means either a wrong
// key/nonce or that the ciphertext or additional data was tampered with.
func Open(key, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid key size: must be %d bytes", chacha20poly1305.KeySize)
	}
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("invalid nonce size: must be %d bytes", chacha20poly1305.NonceSize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 AEAD: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed data: %w", err)
	}
	return plaintext, nil
}

// SealToPub encrypts a plaintext to the holder of `recipient` using an
// ephemeral ECDHE key. The returned blob is [ephemeral public key | ciphertext];
// the ephemeral public key doubles as the AEAD's associated data.
func SealToPub(recipient *jubjub.PublicKey, plaintext []byte) ([]byte, error) {
	ephKey, err := NewKey()
	if err != nil {
		return nil, err
	}
	ephPrv := ephKey.(*jubjub.PrivateKey)

	sharedSecret, err := ECDHEComputeSharedSecret(ephPrv, recipient)
	if err != nil {
		return nil, err
	}

	keyStream, err := ExpandKDF(sharedSecret, chacha20poly1305.KeySize+chacha20poly1305.NonceSize)
	if err != nil {
		return nil, err
	}

	ephPubBytes := ephPrv.PublicKey.Bytes()
	ct, err := Seal(
		keyStream[:chacha20poly1305.KeySize],
		keyStream[chacha20poly1305.KeySize:],
		plaintext,
		ephPubBytes,
	)
	if err != nil {
		return nil, err
	}
	return append(ephPubBytes, ct...), nil
}

// OpenSealed decrypts a blob produced by SealToPub using the recipient's key.
func OpenSealed(recipient *jubjub.PrivateKey, blob []byte) ([]byte, error) {
	if len(blob) <= ephPubKeySize {
		return nil, fmt.Errorf("sealed blob too short: %d bytes", len(blob))
	}
	ephPubBytes := blob[:ephPubKeySize]
	ct := blob[ephPubKeySize:]

	ephPub := new(jubjub.PublicKey)
	if _, err := ephPub.SetBytes(ephPubBytes); err != nil {
		return nil, fmt.Errorf("invalid ephemeral public key: %w", err)
	}

	sharedSecret, err := ECDHEComputeSharedSecret(recipient, ephPub)
	if err != nil {
		return nil, err
	}

	keyStream, err := ExpandKDF(sharedSecret, chacha20poly1305.KeySize+chacha20poly1305.NonceSize)
	if err != nil {
		return nil, err
	}

	return Open(
		keyStream[:chacha20poly1305.KeySize],
		keyStream[chacha20poly1305.KeySize:],
		ct,
		ephPubBytes,
	)
}
