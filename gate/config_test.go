package gate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	err := os.WriteFile(path, []byte(`
[engine]
gatekeeper = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
administrator = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

[token]
uri = "https://dapes.example/{id}.json"
`), 0600)
	require.NoError(t, err)

	conf, err := Setup(path)
	require.NoError(t, err)
	assert.Equal(t, ":7001", conf.HTTP.Listen)
	assert.Equal(t, "https://dapes.example/{id}.json", conf.Token.URI)
	authority := conf.Authority()
	assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), authority.Gatekeeper)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), authority.Administrator)

	err = os.WriteFile(path, []byte(`
[engine]
gatekeeper = "not an address"
administrator = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
`), 0600)
	require.NoError(t, err)
	_, err = Setup(path)
	assert.Error(t, err)

	_, err = Setup(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
