// Package main provides the fermilat command-line tool for submitting data
// queries to the Fermi LAT data server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cdeil/astroquery/pkg/fermilat"
)

func main() {
	object := flag.String("object", "", "Object name or coordinates to search around (required)")
	coordSystem := flag.String("coordsys", fermilat.CoordJ2000, "Coordinate system: J2000, B1950 or Galactic")
	radius := flag.String("radius", "", "Search radius in degrees (server default if empty)")
	obsDates := flag.String("dates", "", "Observation date range (full mission if empty)")
	timeSystem := flag.String("timesys", fermilat.TimeGregorian, "Time system: Gregorian, MET or MJD")
	energyRange := flag.String("energy", "", "Energy range in MeV, e.g. '100, 300000'")
	dataType := flag.String("datatype", fermilat.DataPhoton, "Data type: Photon, Extended or None")
	noSpacecraft := flag.Bool("no-spacecraft", false, "Skip the spacecraft data file")
	timeoutSec := flag.Int("timeout", 60, "Request timeout in seconds")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	if *object == "" {
		fmt.Println("❌ Please provide an object name or coordinates with -object")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	q := fermilat.NewQuery(*object)
	q.CoordSystem = *coordSystem
	q.SearchRadius = *radius
	q.ObsDates = *obsDates
	q.TimeSystem = *timeSystem
	q.EnergyRangeMeV = *energyRange
	q.DataType = *dataType
	q.SpacecraftData = !*noSpacecraft

	fmt.Println("🛰️  Fermi LAT Data Query")
	fmt.Printf("📍 Object: %s (%s)\n", q.NameOrCoords, q.CoordSystem)

	if q.SearchRadius != "" {
		fmt.Printf("📐 Radius: %s deg\n", q.SearchRadius)
	}

	if q.ObsDates != "" {
		fmt.Printf("📅 Dates: %s (%s)\n", q.ObsDates, q.TimeSystem)
	}

	if q.EnergyRangeMeV != "" {
		fmt.Printf("⚡ Energy: %s MeV\n", q.EnergyRangeMeV)
	}

	fmt.Println()
	fmt.Println("⏳ Submitting query...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutSec)*time.Second)
	defer cancel()

	client := fermilat.NewClient()

	resultURL, err := client.Submit(ctx, q)
	if err != nil {
		fmt.Printf("❌ Query failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Query accepted")
	fmt.Printf("📦 Results will appear at: %s\n", resultURL)
	fmt.Println("\nThe server prepares files asynchronously; the page may take a few")
	fmt.Println("minutes to become available.")
	fmt.Println("\n✨ Done!")
}

func printUsage() {
	fmt.Println("Usage: ./bin/fermilat -object <NAME|COORDS> [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/fermilat -object 'Crab Nebula' -radius 20")
	fmt.Println("  ./bin/fermilat -object 'M31' -energy '100, 300000' -datatype Extended")
	fmt.Println("  ./bin/fermilat -object '83.63, 22.01' -dates '2010-01-01 00:00:00, 2010-06-01 00:00:00'")
}
