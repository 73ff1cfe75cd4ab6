package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for the on-disk keystore.
	// N=2^18 (~256MB RAM, 0.5-2s) keeps brute-force expensive while still
	// working on memory-constrained hosts.
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12

	keystoreExt = ".wallet"
	network     = "solana"
)

// KeystoreFile is the on-disk keystore structure. The address and its QR
// code are stored in the clear; only the private key is encrypted.
type KeystoreFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

type keyData struct {
	PrivateKey []byte `json:"privateKey"` // 64 bytes (base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}

// Save encrypts the wallet's private key and writes the keystore file.
// password must be []byte for security (caller should zero it after use)
func Save(filePath string, w *Wallet, password []byte) error {
	if !strings.HasSuffix(filePath, keystoreExt) {
		return fmt.Errorf("file must have %s extension", keystoreExt)
	}

	// Refuse to clobber an existing keystore
	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return fmt.Errorf("file is not empty: %w", os.ErrExist)
	}

	address := w.PublicKey().String()

	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(256)
	if err != nil {
		return fmt.Errorf("failed to generate QR PNG: %w", err)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	privBytes := w.PrivateKeyBytes()
	defer clear(privBytes)

	plaintext, err := json.Marshal(keyData{
		PrivateKey: privBytes,
		CreatedAt:  time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	ksFile := KeystoreFile{
		Network:    network,
		Address:    address,
		QR:         base64.StdEncoding.EncodeToString(png),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}

	fileData, err := json.MarshalIndent(ksFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore file: %w", err)
	}

	if err := os.WriteFile(filePath, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Load reads and decrypts the keystore file.
// password must be []byte for security (caller should zero it after use)
func Load(filePath string, password []byte) (*Wallet, error) {
	fileData, err := readKeystoreBytes(filePath)
	if err != nil {
		return nil, err
	}

	var ksFile KeystoreFile
	if err := json.Unmarshal(fileData, &ksFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(ksFile.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(ksFile.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ksFile.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.New("invalid password")
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var data keyData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key data: %w", err)
	}

	w, err := New(data.PrivateKey)
	if err != nil {
		return nil, err
	}

	// Cross-check the stored address against the decrypted key
	if w.PublicKey().String() != ksFile.Address {
		return nil, errors.New("private key does not match keystore address")
	}

	return w, nil
}

// ReadAddress reads only the address from the keystore (without decryption)
func ReadAddress(filePath string) (string, error) {
	fileData, err := readKeystoreBytes(filePath)
	if err != nil {
		return "", err
	}

	var ksFile KeystoreFile
	if err := json.Unmarshal(fileData, &ksFile); err != nil {
		return "", fmt.Errorf("failed to unmarshal keystore file: %w", err)
	}

	return ksFile.Address, nil
}

func readKeystoreBytes(filePath string) ([]byte, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("keystore file does not exist")
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("keystore file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	return fileData, nil
}
