package viper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serializerSection struct {
	Fallback     string `mapstructure:"fallback"`
	Compression  bool   `mapstructure:"compression"`
	MaxFrameSize uint32 `mapstructure:"max-frame-size"`
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "blitz.yaml", `
serializer:
  fallback: json
  compression: true
  max-frame-size: 4096
`)
	c := New()
	require.NoError(t, c.LoadFile(path))
	assert.True(t, c.IsSet("serializer.fallback"))
	assert.Equal(t, "json", c.GetString("serializer.fallback"))

	var sec serializerSection
	require.NoError(t, c.UnmarshalKey("serializer", &sec))
	assert.Equal(t, serializerSection{Fallback: "json", Compression: true, MaxFrameSize: 4096}, sec)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "blitz.json", `{"serializer": {"fallback": "proto"}}`)
	c := New()
	require.NoError(t, c.LoadFile(path))

	var all struct {
		Serializer serializerSection `mapstructure:"serializer"`
	}
	require.NoError(t, c.Unmarshal(&all))
	assert.Equal(t, "proto", all.Serializer.Fallback)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BLITZ_SERIALIZER_FALLBACK", "msgpack")
	c := New()
	c.SetDefault("serializer.fallback", "json")
	assert.Equal(t, "msgpack", c.GetString("serializer.fallback"))
}

func TestDefaults(t *testing.T) {
	c := New()
	assert.False(t, c.IsSet("serializer.compression"))
	c.SetDefault("serializer.compression", true)
	assert.True(t, c.IsSet("serializer.compression"))

	var sec serializerSection
	require.NoError(t, c.UnmarshalKey("serializer", &sec))
	assert.True(t, sec.Compression)
}

func TestLoadMissing(t *testing.T) {
	c := New()
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}
