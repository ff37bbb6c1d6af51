package configurator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	assert.Equal(t, "gerber", v.GetString(CfgSvgID))
	assert.Equal(t, 72, v.GetInt(CfgPlotterArcSegments))
	assert.True(t, v.GetBool(CfgCommonPrintWarnings))
	assert.Equal(t, "", v.GetString(CfgCommonOutFile))
}

func TestMissingConfigFile(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.AddConfigPath(t.TempDir())
	// the working directory of the test has no config.toml
	assert.NoError(t, ProcessConfigFile(v))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "[svg]\nID = \"top\"\nColor = \"#c80\"\n[plotter]\nArcSegments = 36\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, ProcessConfigFile(v))
	assert.Equal(t, "top", v.GetString(CfgSvgID))
	assert.Equal(t, "#c80", v.GetString(CfgSvgColor))
	assert.Equal(t, 36, v.GetInt(CfgPlotterArcSegments))
	assert.Equal(t, "", v.GetString(CfgSvgClass))

	var buf bytes.Buffer
	DiagnosticAllCfgPrint(v, &buf)
	assert.True(t, strings.Contains(buf.String(), "svg.id : top"))
}

func TestBrokenConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[svg\nID="), 0o644))
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(filepath.Join(dir, "config.toml"))
	assert.Error(t, ProcessConfigFile(v))
}
