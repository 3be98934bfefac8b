// Package main provides the tevcat command-line tool for fetching the TeVCat
// gamma-ray source catalog into a typed table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cdeil/astroquery/internal/config"
	"github.com/cdeil/astroquery/internal/export"
	"github.com/cdeil/astroquery/internal/fetch"
	"github.com/cdeil/astroquery/internal/formatter"
	"github.com/cdeil/astroquery/internal/logger"
	"github.com/cdeil/astroquery/pkg/cosmology"
	"github.com/cdeil/astroquery/pkg/table"
	"github.com/cdeil/astroquery/pkg/tevcat"
)

// defaultConfigPath is tried when no -config flag is given.
const defaultConfigPath = "configs/tevcat.yaml"

// previewColumns keeps terminal previews narrow; the full table has too many
// columns for most terminals.
var previewColumns = []string{"canonical_name", "coord_ra", "coord_dec", "source_type_name", "flux"}

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	targetURL := flag.String("url", "", "Catalog page URL (overrides config)")
	localFile := flag.String("file", "", "Local HTML file to parse (bypasses HTTP fetching)")
	output := flag.String("output", "", "Output file path (overrides config)")
	format := flag.String("format", "", "Output format: json, csv or sqlite (overrides config)")
	includeNotes := flag.Bool("notes", false, "Include the notes and private_notes columns")
	cosmologyName := flag.String("cosmology", "", "Cosmology for redshift distances (overrides config)")
	previewRows := flag.Int("preview", 0, "Print a preview of the first N catalog rows")
	quiet := flag.Bool("quiet", false, "Suppress download progress output")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg, err := loadConfiguration(*configFile)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Apply command-line overrides
	if *targetURL != "" {
		cfg.Catalog.URL = *targetURL
	}

	if *output != "" {
		cfg.Output.Path = *output
	}

	if *format != "" {
		cfg.Output.Format = *format
	}

	if *includeNotes {
		cfg.Catalog.IncludeNotes = true
	}

	if *cosmologyName != "" {
		cfg.Catalog.Cosmology = *cosmologyName
	}

	if *quiet {
		cfg.Logging.ShowProgress = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	model, err := cfg.GetCosmology()
	if err != nil {
		fmt.Printf("❌ Invalid cosmology: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🔭 TeVCat Catalog Fetcher")

	if *localFile != "" {
		fmt.Printf("📂 Source: %s (local file)\n", *localFile)
	} else {
		fmt.Printf("📍 Source: %s\n", cfg.Catalog.URL)
	}

	fmt.Printf("🌌 Cosmology: %s\n", model.Name)
	fmt.Printf("📝 Output: %s (%s format)\n", cfg.Output.Path, cfg.Output.Format)
	fmt.Println()

	startTime := time.Now()

	// Phase 1: Ingestion
	var page string

	if *localFile != "" {
		fmt.Println("⏳ Reading local file...")

		page, err = fetch.NewFetcher().ReadLocalFile(*localFile)
		if err != nil {
			fmt.Printf("❌ Failed to read file: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println("⏳ Fetching catalog page...")

		page, err = fetchPage(cfg)
		if err != nil {
			fmt.Printf("❌ Fetch failed: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("✅ Loaded %d bytes in %v\n", len(page), time.Since(startTime))

	// Phase 2: Extraction and assembly
	fmt.Println("\n📊 Assembling catalog table...")

	tbl, err := buildTable(page, cfg, model, log)
	if err != nil {
		fmt.Printf("❌ Assembly failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Assembled %s\n", formatter.RenderSummary(tbl))

	// Phase 3: Output
	fmt.Println("\n📝 Saving catalog...")

	opts := export.Options{
		Path:        cfg.Output.Path,
		Format:      cfg.Output.Format,
		TableName:   cfg.Output.TableName,
		PrettyPrint: cfg.Output.PrettyPrint,
	}

	if err := export.Write(tbl, opts); err != nil {
		fmt.Printf("❌ Save failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved to: %s\n", cfg.Output.Path)

	if *previewRows > 0 {
		fmt.Println()
		fmt.Print(formatter.RenderPreview(tbl, *previewRows, previewColumns...))
	}

	fmt.Printf("\n✨ Done in %v!\n", time.Since(startTime))
}

// loadConfiguration resolves the config in order: explicit flag, default
// config file if present, built-in defaults.
func loadConfiguration(configFile string) (*config.Config, error) {
	if configFile != "" {
		fmt.Printf("⚙️  Loading configuration from: %s\n", configFile)

		return config.LoadConfig(configFile)
	}

	if _, err := os.Stat(defaultConfigPath); err == nil {
		fmt.Printf("⚙️  Loading default configuration: %s\n", defaultConfigPath)

		return config.LoadConfig(defaultConfigPath)
	}

	fmt.Println("⚙️  Using built-in defaults")

	return config.DefaultConfig(), nil
}

func fetchPage(cfg *config.Config) (string, error) {
	var progress fetch.ProgressFunc
	if cfg.Logging.ShowProgress {
		progress = fetch.ConsoleProgress(os.Stdout)
	}

	fetcher := fetch.NewFetcherWithOptions(cfg.GetTimeout(), cfg.GetMaxSizeBytes(), progress)

	page, err := fetcher.Fetch(context.Background(), cfg.Catalog.URL)

	if cfg.Logging.ShowProgress {
		fetch.FinishProgress(os.Stdout)
	}

	if err != nil {
		return "", err
	}

	return page, nil
}

func buildTable(page string, cfg *config.Config, model *cosmology.Model, log *logger.Logger) (*table.Table, error) {
	version, err := tevcat.ExtractVersion(page)
	if err != nil {
		return nil, err
	}

	payload, err := tevcat.ExtractData(page)
	if err != nil {
		return nil, err
	}

	data, err := tevcat.ParseSourceData(payload)
	if err != nil {
		return nil, err
	}

	assembler := tevcat.NewAssembler(model, cfg.Catalog.IncludeNotes, log)

	return assembler.Assemble(data.Sources, data.Catalogs, version)
}

func printUsage() {
	fmt.Println("Usage: ./bin/tevcat [OPTIONS]")
	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println("  1. Config-based:   ./bin/tevcat -config configs/tevcat.yaml")
	fmt.Println("  2. Default config: ./bin/tevcat (reads configs/tevcat.yaml if exists)")
	fmt.Println("  3. CLI arguments:  ./bin/tevcat -output catalog.json -format json")
	fmt.Println("  4. Local file:     ./bin/tevcat -file page.html [-output <PATH>]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/tevcat -output data/tevcat.json -preview 5")
	fmt.Println("  ./bin/tevcat -format sqlite -output data/tevcat.db -notes")
	fmt.Println("  ./bin/tevcat -cosmology WMAP9 -format csv -output data/tevcat.csv")
	fmt.Println("  ./bin/tevcat -file testdata/tevcat.html -output /tmp/tevcat.json")
}
