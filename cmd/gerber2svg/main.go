// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	gerber2svg "github.com/PLM-MPT/gerber-to-svg"
	"github.com/PLM-MPT/gerber-to-svg/configurator"
)

// configuration base
var viperConfig *viper.Viper

func main() {
	var sourceFileName, outFileName string
	flag.StringVar(&sourceFileName, "i", "", "input file, standard input when empty")
	flag.StringVar(&outFileName, "o", "", "output file, overrides "+configurator.CfgCommonOutFile)
	id := flag.String("id", "", "id of the svg element, overrides "+configurator.CfgSvgID)
	class := flag.String("class", "", "class of the svg element")
	color := flag.String("color", "", "color of the svg element")
	quiet := flag.Bool("q", false, "do not print warnings")
	flag.Parse()
	defer glog.Flush()

	viperConfig = viper.New()
	configurator.SetDefaults(viperConfig)
	if err := configurator.ProcessConfigFile(viperConfig); err != nil {
		glog.Errorf("%v, using built-in defaults", err)
		viperConfig = viper.New()
		configurator.SetDefaults(viperConfig)
	}

	// command line wins over the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			viperConfig.Set(configurator.CfgCommonOutFile, outFileName)
		case "id":
			viperConfig.Set(configurator.CfgSvgID, *id)
		case "class":
			viperConfig.Set(configurator.CfgSvgClass, *class)
		case "color":
			viperConfig.Set(configurator.CfgSvgColor, *color)
		case "q":
			viperConfig.Set(configurator.CfgCommonPrintWarnings, !*quiet)
		}
	})
	if viperConfig.GetBool(configurator.CfgCommonPrintAllConfigs) {
		configurator.DiagnosticAllCfgPrint(viperConfig, os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, sourceFileName); err != nil {
		glog.Flush()
		glog.Exitf("gerber2svg: %v", err)
	}
}

func run(ctx context.Context, sourceFileName string) error {
	timeStamp := time.Now()

	var in io.Reader = os.Stdin
	if sourceFileName != "" {
		inFile, err := os.Open(sourceFileName)
		if err != nil {
			return err
		}
		defer inFile.Close()
		in = inFile
	}

	opts := gerber2svg.Options{
		ID:          viperConfig.GetString(configurator.CfgSvgID),
		Class:       viperConfig.GetString(configurator.CfgSvgClass),
		Color:       viperConfig.GetString(configurator.CfgSvgColor),
		ArcSegments: viperConfig.GetInt(configurator.CfgPlotterArcSegments),
	}
	nWarnings := 0
	printWarnings := viperConfig.GetBool(configurator.CfgCommonPrintWarnings)
	opts.OnWarning = func(w gerber2svg.Warning) {
		nWarnings++
		if printWarnings {
			fmt.Fprintln(os.Stderr, "warning:", w.String())
		}
	}

	conv, err := gerber2svg.Convert(ctx, bufio.NewReader(in), opts)
	if err != nil {
		return err
	}
	defer conv.Close()

	out := os.Stdout
	if name := viperConfig.GetString(configurator.CfgCommonOutFile); name != "" {
		outFile, err := os.Create(name)
		if err != nil {
			return err
		}
		defer outFile.Close()
		out = outFile
	}
	w := bufio.NewWriter(out)
	if _, err := io.Copy(w, conv); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	glog.V(1).Infof("done in %v, %d warnings", time.Since(timeStamp), nWarnings)
	return nil
}
