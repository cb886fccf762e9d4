package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/navagraha/jyotish/internal/log"
	"github.com/navagraha/jyotish/pkg/bundleformat"
	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/config"
	"github.com/navagraha/jyotish/pkg/engine"
	"github.com/navagraha/jyotish/pkg/yoga"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

func main() {
	var (
		timeStr     string
		lat         float64
		lon         float64
		ayanamsa    string
		houseSystem string
		vargas      string
		dashaDepth  int
		horizonDays int
		configPath  string
		formatName  string
		pretty      bool
		debug       bool
	)
	flag.StringVar(&timeStr, "time", "", "birth time in UTC (RFC3339 format, e.g., 1990-06-15T06:30:00Z)")
	flag.Float64Var(&lat, "lat", 0, "birth latitude, degrees north-positive")
	flag.Float64Var(&lon, "lon", 0, "birth longitude, degrees east-positive")
	flag.StringVar(&ayanamsa, "ayanamsa", "", "ayanamsa (lahiri, raman, krishnamurti, fagan-bradley)")
	flag.StringVar(&houseSystem, "house-system", "", "house system (whole-sign, equal)")
	flag.StringVar(&vargas, "vargas", "", "comma-separated divisional charts beyond D1, e.g. D9,D10")
	flag.IntVar(&dashaDepth, "dasha-depth", 0, "Vimshottari levels, 1-5")
	flag.IntVar(&horizonDays, "horizon", 0, "transit horizon in days")
	flag.StringVar(&configPath, "config", "", "configuration source: path to .yaml or .db/.sqlite file")
	flag.StringVar(&formatName, "format", "json", "output format (json, msgpack)")
	flag.BoolVar(&pretty, "pretty", false, "indent JSON output")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	if timeStr == "" {
		fmt.Fprintln(os.Stderr, "Error: -time is required")
		flag.Usage()
		os.Exit(1)
	}
	birth, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		os.Exit(1)
	}

	cfg, catalog, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the configuration source.
	if ayanamsa == "" {
		ayanamsa = cfg.Ayanamsa
	}
	if houseSystem == "" {
		houseSystem = cfg.HouseSystem
	}
	variants := cfg.Variants
	if vargas != "" {
		variants = strings.Split(vargas, ",")
	}
	if dashaDepth == 0 {
		dashaDepth = cfg.DashaDepth
	}
	if horizonDays == 0 {
		horizonDays = cfg.TransitHorizonDays
	}

	if err := log.Init(debug || cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	format, err := bundleformat.ParseFormat(formatName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	input := chart.BirthInput{
		Time:        birth,
		Latitude:    lat,
		Longitude:   lon,
		Ayanamsa:    zodiac.Ayanamsa(ayanamsa),
		HouseSystem: chart.HouseSystem(houseSystem),
	}
	bundle, err := engine.Compute(context.Background(), input, engine.Options{
		Variants:       variants,
		DashaDepth:     dashaDepth,
		Catalog:        catalog,
		TransitHorizon: time.Duration(horizonDays) * 24 * time.Hour,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing chart: %v\n", err)
		os.Exit(1)
	}

	formatter := bundleformat.NewFormatter(format)
	if pretty {
		formatter = formatter.WithIndent()
	}
	if err := formatter.Write(os.Stdout, bundle); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing bundle: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration source by file extension. Without
// -config the defaults and the built-in catalog are used.
func loadConfig(path string) (*config.ConfigData, *yoga.Catalog, error) {
	if path == "" {
		return config.Defaults(), nil, nil
	}

	var provider config.ConfigProvider
	switch {
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		p, err := config.NewSQLiteProvider(path)
		if err != nil {
			return nil, nil, err
		}
		provider = p
	default:
		provider = config.NewYAMLProvider(path)
	}
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	catalog, err := provider.GetRuleCatalog(cfg.CatalogVersion)
	if err != nil {
		return nil, nil, err
	}
	return cfg, catalog, nil
}
