package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeystoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("scrypt key derivation is slow")
	}

	path := filepath.Join(t.TempDir(), "test.wallet")
	password := []byte("correct horse battery staple")

	w := Generate()
	require.NoError(t, Save(path, w, password))

	// Address readable without the password
	address, err := ReadAddress(path)
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey().String(), address)

	loaded, err := Load(path, password)
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey(), loaded.PublicKey())

	_, err = Load(path, []byte("wrong password"))
	require.Error(t, err)
	assert.EqualError(t, err, "invalid password")
}

func TestSaveRejectsWrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	err := Save(path, Generate(), []byte("pw"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.wallet"), []byte("pw"))
	assert.Error(t, err)
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New(make([]byte, 32))
	assert.Error(t, err)
}

func TestGenerateProducesDistinctWallets(t *testing.T) {
	a := Generate()
	b := Generate()
	assert.NotEqual(t, a.PublicKey(), b.PublicKey())
}
