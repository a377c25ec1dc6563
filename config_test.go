package keel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromEnv_Defaults(t *testing.T) {
	opts := OptionsFromEnv()

	assert.True(t, opts.EnforceNamespaceConvention)
	assert.False(t, opts.AutoSubscribeHandlers)
	assert.Equal(t, CapObservable, opts.ViewModelBaseCapability)
	assert.False(t, opts.TraceResolutions)
}

func TestOptionsFromEnv_Overrides(t *testing.T) {
	t.Setenv("KEEL_ENFORCE_NAMESPACE", "false")
	t.Setenv("KEEL_AUTO_SUBSCRIBE", "true")
	t.Setenv("KEEL_VIEWMODEL_CAPABILITY", "custom/capability")
	t.Setenv("KEEL_TRACE_RESOLUTIONS", "1")

	opts := OptionsFromEnv()

	assert.False(t, opts.EnforceNamespaceConvention)
	assert.True(t, opts.AutoSubscribeHandlers)
	assert.Equal(t, Capability("custom/capability"), opts.ViewModelBaseCapability)
	assert.True(t, opts.TraceResolutions)
}

func TestOptionsFromEnv_InvalidBoolKeepsDefault(t *testing.T) {
	t.Setenv("KEEL_AUTO_SUBSCRIBE", "definitely")

	opts := OptionsFromEnv()
	assert.False(t, opts.AutoSubscribeHandlers)
}

func TestOptionsFromEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEEL_AUTO_SUBSCRIBE=true\n"), 0o600))

	opts := OptionsFromEnv(path)
	assert.True(t, opts.AutoSubscribeHandlers)

	t.Cleanup(func() { os.Unsetenv("KEEL_AUTO_SUBSCRIBE") })
}

func TestOptionsFromEnv_MissingDotEnvTolerated(t *testing.T) {
	opts := OptionsFromEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.True(t, opts.EnforceNamespaceConvention)
}

func TestOptionsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keel.yaml")

	raw := []byte(`
enforce_namespace_convention: false
auto_subscribe_handlers: true
view_model_base_capability: "custom/capability"
trace_resolutions: true
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	opts, err := OptionsFromFile(path)
	require.NoError(t, err)

	assert.False(t, opts.EnforceNamespaceConvention)
	assert.True(t, opts.AutoSubscribeHandlers)
	assert.Equal(t, Capability("custom/capability"), opts.ViewModelBaseCapability)
	assert.True(t, opts.TraceResolutions)
}

func TestOptionsFromFile_AbsentKeysKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auto_subscribe_handlers: true\n"), 0o600))

	opts, err := OptionsFromFile(path)
	require.NoError(t, err)

	assert.True(t, opts.EnforceNamespaceConvention)
	assert.True(t, opts.AutoSubscribeHandlers)
	assert.Equal(t, CapObservable, opts.ViewModelBaseCapability)
}

func TestOptionsFromFile_MissingFile(t *testing.T) {
	_, err := OptionsFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOptionsFromFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err := OptionsFromFile(path)
	assert.Error(t, err)
}
