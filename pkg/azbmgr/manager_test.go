package azbmgr

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "azbmgr")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "azb.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewManager(t *testing.T) {
	path := writeConfig(t, `
service:
  blob:
    azure:
      account: testaccount
      key: YXpiLXVuaXQtdGVzdC1rZXktbWF0ZXJpYWwtMDAwMDAx
`)

	mgr, err := NewManager(map[string]interface{}{"config-file": path})
	require.NoError(t, err)
	defer mgr.Destroy()

	assert.NotNil(t, mgr.Provider.Blob)
	assert.NotNil(t, mgr.Logger)
	assert.Equal(t, "azure", mgr.Cfg.GetString("default-provider"))
}

func TestNewManagerEnvOnlyCredentials(t *testing.T) {
	os.Setenv("AZURE_STORAGE_ACCOUNT", "testaccount")
	os.Setenv("AZURE_STORAGE_KEY", "YXpiLXVuaXQtdGVzdC1rZXktbWF0ZXJpYWwtMDAwMDAx")
	t.Cleanup(func() {
		os.Unsetenv("AZURE_STORAGE_ACCOUNT")
		os.Unsetenv("AZURE_STORAGE_KEY")
	})

	// No config file at all: credentials must reach the provider from the
	// environment alone.
	mgr, err := NewManager(nil)
	require.NoError(t, err)
	defer mgr.Destroy()
	assert.NotNil(t, mgr.Provider.Blob)
}

func TestNewManagerKeyFromEnvironment(t *testing.T) {
	path := writeConfig(t, `
service:
  blob:
    azure:
      account: testaccount
`)
	os.Setenv("AZURE_STORAGE_KEY", "YXpiLXVuaXQtdGVzdC1rZXktbWF0ZXJpYWwtMDAwMDAx")
	t.Cleanup(func() { os.Unsetenv("AZURE_STORAGE_KEY") })

	mgr, err := NewManager(map[string]interface{}{"config-file": path})
	require.NoError(t, err)
	defer mgr.Destroy()
	assert.NotNil(t, mgr.Provider.Blob)
}

func TestNewManagerBadKey(t *testing.T) {
	path := writeConfig(t, `
service:
  blob:
    azure:
      account: testaccount
      key: "!!! not base64 !!!"
`)

	_, err := NewManager(map[string]interface{}{"config-file": path})
	assert.Error(t, err)
}

func TestNewManagerUnknownService(t *testing.T) {
	path := writeConfig(t, `
default-provider: other
providers:
  other:
    blob: mystery
`)

	_, err := NewManager(map[string]interface{}{"config-file": path})
	assert.Error(t, err)
}

func TestNewManagerBadOptions(t *testing.T) {
	_, err := NewManager(map[string]interface{}{"config-file": 42})
	assert.Error(t, err)

	_, err = NewManager(map[string]interface{}{"logger": "not a logger"})
	assert.Error(t, err)
}
