package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/customer-analytics/internal/config"
	"github.com/example/customer-analytics/internal/infrastructure/store"
	"github.com/example/customer-analytics/internal/query"
	"github.com/example/customer-analytics/internal/report"
)

func main() {
	section := flag.String("report", "all", "Report section (delayed|sellers|reviews|rfm|all)")
	output := flag.String("output", "", "Output folder (defaults to REPORT_OUTPUT_DIR)")
	flag.Parse()

	cfg := config.Load()
	outDir := cfg.Report.OutputDir
	if *output != "" {
		outDir = *output
	}

	started := time.Now()
	log.Printf("[Report] Starting report: %s", *section)

	db, err := store.Connect(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatalf("[Report] Failed to connect to record store: %v", err)
	}
	defer db.Close()

	params := query.DefaultParams()
	params.RevenueThreshold = cfg.Metrics.RevenueThreshold
	metrics := query.NewHandler(store.NewSQLRecordStore(db), params)
	builder := report.NewBuilder(metrics)

	now := time.Now()
	r := builder.Build(context.Background(), now)

	var payload any
	switch *section {
	case report.SectionDelayedOrders, "delayed":
		payload = r.DelayedOrders
	case report.SectionTopSellers, "sellers":
		payload = r.TopSellers
	case report.SectionWorstPostalAreas, "reviews":
		payload = r.WorstPostalAreas
	case report.SectionRFM:
		payload = r.RFM
	case "all":
		payload = r
	default:
		fmt.Fprintf(os.Stderr, "unknown report %q (want delayed|sellers|reviews|rfm|all)\n", *section)
		os.Exit(1)
	}

	for name, msg := range r.Errors {
		log.Printf("[Report] Section %s failed: %s", name, msg)
	}

	filename := report.TimestampedFilename(outDir, *section, now)
	if err := report.ExportJSON(filename, payload); err != nil {
		log.Fatalf("[Report] Export failed: %v", err)
	}

	log.Printf("[Report] Run %s exported to %s in %s", r.RunID, filename, time.Since(started).Round(time.Millisecond))
}
