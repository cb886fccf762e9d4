package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/navagraha/jyotish/pkg/dasha"
	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

func main() {
	var (
		timeStr  string
		atStr    string
		ayanamsa string
		depth    int
	)
	flag.StringVar(&timeStr, "time", "", "birth time in UTC (RFC3339 format, e.g., 1990-06-15T06:30:00Z)")
	flag.StringVar(&atStr, "at", "", "instant to resolve the running periods for (RFC3339, default now)")
	flag.StringVar(&ayanamsa, "ayanamsa", "", "ayanamsa (lahiri, raman, krishnamurti, fagan-bradley)")
	flag.IntVar(&depth, "depth", 3, "Vimshottari levels to resolve, 1-5")
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
	at := time.Now().UTC()
	if atStr != "" {
		at, err = time.Parse(time.RFC3339, atStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -at: %v\n", err)
			os.Exit(1)
		}
	}
	ay, err := zodiac.ParseAyanamsa(ayanamsa)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	provider := ephemeris.NewBuiltinProvider()
	pos, err := provider.Position(birth, ephemeris.Moon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing Moon position: %v\n", err)
		os.Exit(1)
	}
	moon, err := zodiac.Normalize(pos.Longitude, ay.Degrees(birth))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tree, err := dasha.Build(moon.Longitude, birth, depth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building dasha tree: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Vimshottari timeline for %s\n", birth.Format(time.RFC3339))
	fmt.Printf("  Natal Moon: %.4f° (%s, %s pada %d)\n",
		moon.Longitude, moon.Sign, moon.Nakshatra, moon.Pada)
	fmt.Println()
	fmt.Println("Mahadashas:")
	for _, p := range tree.Periods {
		fmt.Printf("  %-8s %s to %s  (%.2f years)\n",
			p.Body, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"),
			p.Duration().Hours()/24/365.25)
	}

	path, err := dasha.ResolveCurrent(tree, at)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving %s: %v\n", at.Format(time.RFC3339), err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Printf("Running periods at %s:\n", at.Format(time.RFC3339))
	for _, p := range path {
		fmt.Printf("  %-12s %-8s %s to %s\n",
			p.Level, p.Body, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
	}
}
