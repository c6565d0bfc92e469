package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for new keystores; stored keystores carry their own
const (
	ScryptN = 32768
	ScryptR = 8
	ScryptP = 1
	KeyLen  = 32

	keystoreVersion = 1
	saltLen         = 32
)

// ErrWrongPassword is returned when a keystore cannot be opened with the given password
var ErrWrongPassword = errors.New("wrong password or corrupted keystore")

// KDFParams records how the encryption key was stretched from the password
type KDFParams struct {
	N    int    `json:"n"`
	R    int    `json:"r"`
	P    int    `json:"p"`
	Salt []byte `json:"salt"`
}

// Keystore is a password-encrypted mnemonic together with the wallet it was generated for
type Keystore struct {
	Version    int       `json:"version"`
	Chain      string    `json:"chain"`
	Testnet    bool      `json:"testnet"`
	Xpub       string    `json:"xpub,omitempty"`
	KDF        KDFParams `json:"kdf"`
	Nonce      []byte    `json:"nonce"`
	Ciphertext []byte    `json:"ciphertext"`
	CreatedAt  time.Time `json:"createdAt"`
}

type sealedPayload struct {
	Mnemonic string `json:"mnemonic"`
}

// Seal encrypts mnemonic with a key derived from password
func Seal(mnemonic, password, chain string, testnet bool, xpub string) (*Keystore, error) {
	if password == "" {
		return nil, fmt.Errorf("password must not be empty")
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	kdf := KDFParams{N: ScryptN, R: ScryptR, P: ScryptP, Salt: salt}

	key, err := kdf.deriveKey(password)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	plaintext, err := json.Marshal(sealedPayload{Mnemonic: mnemonic})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize keystore payload: %w", err)
	}
	defer clearBytes(plaintext)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ks := &Keystore{
		Version:   keystoreVersion,
		Chain:     chain,
		Testnet:   testnet,
		Xpub:      xpub,
		KDF:       kdf,
		Nonce:     nonce,
		CreatedAt: time.Now().UTC(),
	}
	// chain and network are bound to the ciphertext
	ks.Ciphertext = aead.Seal(nil, nonce, plaintext, ks.additionalData())
	return ks, nil
}

// Open decrypts the mnemonic
func (k *Keystore) Open(password string) (string, error) {
	if k.Version != keystoreVersion {
		return "", fmt.Errorf("unsupported keystore version %d", k.Version)
	}
	key, err := k.KDF.deriveKey(password)
	if err != nil {
		return "", err
	}
	defer clearBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	plaintext, err := aead.Open(nil, k.Nonce, k.Ciphertext, k.additionalData())
	if err != nil {
		return "", ErrWrongPassword
	}
	defer clearBytes(plaintext)

	var payload sealedPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return "", fmt.Errorf("failed to deserialize keystore payload: %w", err)
	}
	return payload.Mnemonic, nil
}

// Save writes the keystore as JSON, readable only by the owner
func (k *Keystore) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write keystore file: %w", err)
	}
	return nil
}

// LoadKeystore reads a keystore written by Save
func LoadKeystore(path string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}
	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore: %w", err)
	}
	return &ks, nil
}

func (k *Keystore) additionalData() []byte {
	network := "mainnet"
	if k.Testnet {
		network = "testnet"
	}
	return []byte(k.Chain + "/" + network)
}

func (p KDFParams) deriveKey(password string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), p.Salt, p.N, p.R, p.P, KeyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}
	return key, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
