package configurator

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/viper"

	"github.com/PLM-MPT/gerber-to-svg/geometry"
)

const (
	CfgSvgID                 string = "svg.ID"
	CfgSvgClass              string = "svg.Class"
	CfgSvgColor              string = "svg.Color"
	CfgPlotterArcSegments    string = "plotter.ArcSegments"
	CfgCommonPrintWarnings   string = "common.PrintWarnings"
	CfgCommonOutFile         string = "common.OutFile"
	CfgCommonPrintAllConfigs string = "common.PrintAllConfigs"
)

func SetDefaults(v *viper.Viper) {
	v.SetConfigName("config") // no need to include file extension
	v.AddConfigPath(".")      // set the path of your config file
	v.SetConfigType("toml")

	// document
	v.SetDefault(CfgSvgID, "gerber")
	v.SetDefault(CfgSvgClass, "")
	v.SetDefault(CfgSvgColor, "")

	v.SetDefault(CfgPlotterArcSegments, geometry.DefaultArcSegments)

	// diagnostic messages
	v.SetDefault(CfgCommonPrintWarnings, true)
	v.SetDefault(CfgCommonPrintAllConfigs, false)
	// empty means standard output
	v.SetDefault(CfgCommonOutFile, "")
}

// ProcessConfigFile reads config.toml. A missing file is not an error,
// the defaults are used then.
func ProcessConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}
	if err != nil {
		return fmt.Errorf("configuration file error: %w", err)
	}
	return nil
}

// DiagnosticAllCfgPrint prints every setting, sorted by key.
func DiagnosticAllCfgPrint(v *viper.Viper, w io.Writer) {
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintln(w, key, ":", v.Get(key))
	}
	fmt.Fprintln(w)
}
