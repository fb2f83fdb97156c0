package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/blitz/pkg/serializer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("BLITZ_CONFIG_FILE_PATH", "")
	configPath = ""

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})
	err := RootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "blitz v"+Version+"\n", out)

	_, err = run(t, "version", "--require", ">=0.1.0 <1.0.0")
	assert.NoError(t, err)

	_, err = run(t, "version", "--require", ">=9.0.0")
	assert.Error(t, err)

	_, err = run(t, "version", "--require", "not a range")
	assert.Error(t, err)
}

func TestPriceEncodeDecode(t *testing.T) {
	out, err := run(t, "price", "encode", "123.456", "--precision", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "value:    123.45\n")
	assert.Contains(t, out, "mantissa: 12345\n")
	assert.Contains(t, out, "bytes:    3930000000000002\n")

	out, err = run(t, "price", "decode", "3930000000000002")
	require.NoError(t, err)
	assert.Contains(t, out, "value:    123.45\n")
	assert.Contains(t, out, "exponent: 2\n")

	out, err = run(t, "price", "encode", "-p", "1", "--", "-1.5")
	require.NoError(t, err)
	assert.Contains(t, out, "mantissa: -15\n")
}

func TestPriceErrors(t *testing.T) {
	_, err := run(t, "price", "encode", "abc")
	assert.Error(t, err)

	_, err = run(t, "price", "encode", "1", "--precision", "16")
	assert.Error(t, err)

	_, err = run(t, "price", "decode", "zz")
	assert.Error(t, err)

	_, err = run(t, "price", "decode", "0102")
	assert.Error(t, err)
}

func TestProbePaths(t *testing.T) {
	cases := []struct {
		input string
		path  serializer.Path
	}{
		{"1.5", serializer.PathFixed},
		{"true", serializer.PathFixed},
		{`"hello"`, serializer.PathStaged},
		{`{"a":1}`, serializer.PathFallback},
		{`[1,2,3]`, serializer.PathFallback},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			out, err := run(t, "probe", c.input)
			require.NoError(t, err)
			assert.Contains(t, out, "path:   "+c.path.String()+"\n")
		})
	}

	out, err := run(t, "probe", `"hi"`)
	require.NoError(t, err)
	// 帧头：总长 10，标记 1（暂存），随后两字节载荷。
	assert.Contains(t, out, "bytes:  0a000000010000006869\n")

	_, err = run(t, "probe", "null")
	assert.Error(t, err)
	_, err = run(t, "probe", "{")
	assert.Error(t, err)
}

func TestProbeWithConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blitz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serializer:\n  fallback: json\n"), 0o600))

	var out bytes.Buffer
	t.Setenv("BLITZ_CONFIG_FILE_PATH", "")
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"probe", `{"a":1}`, "--config", path})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
		configPath = ""
	})
	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, out.String(), "marker: json\n")
}

func TestBench(t *testing.T) {
	out, err := run(t, "bench", "--workers", "2", "--n", "50")
	require.NoError(t, err)
	for _, label := range []string{"fixed", "staged", "fallback"} {
		line := lineWithPrefix(out, label)
		require.NotEmpty(t, line, label)
		assert.Contains(t, line, "writes=50")
	}

	_, err = run(t, "bench", "--workers", "0")
	assert.Error(t, err)
}

func TestBenchModuleLogger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blitz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
loggers:
  bench:
    level: info
    format: json
    file:
      rootpath: "`+dir+`"
      filename: bench.log
`), 0o600))

	var out bytes.Buffer
	t.Setenv("BLITZ_CONFIG_FILE_PATH", path)
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"bench", "--workers", "1", "--n", "3"})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})
	require.NoError(t, RootCmd.Execute())

	logged, err := os.ReadFile(filepath.Join(dir, "bench.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), `"msg":"bench finished"`)
	assert.Contains(t, string(logged), `"module":"bench"`)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(merr.WrapErrOutOfRange("precision", 0, 15, 16)))
	assert.Equal(t, 1, exitCode(merr.WrapErrOverflow("frame size")))
	assert.Equal(t, 1, exitCode(errors.New("plain")))
}

func lineWithPrefix(out, prefix string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix+" ") {
			return line
		}
	}
	return ""
}
