package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"frameload-sync/core/config"
	"frameload-sync/core/reconcile"
	"frameload-sync/core/sheet"
	"frameload-sync/core/storage"
)

// debug_sheet dumps how the configured workbook parses, without touching the model.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	path := cfg.Sheet.Path
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}

	reader, err := sheet.NewReader(cfg.Sheet, path, client)
	if err != nil {
		log.Fatal(err)
	}

	layout := reconcile.DefaultLayout()
	req := cfg.Sheet.Request()
	req.Path = path
	req.Headers = layout.Headers()

	fmt.Println("=== STEP 1: Read ===")
	raw, err := reader.Read(context.Background(), req)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Data rows below header: %d\n", len(raw))

	fmt.Println("\n=== STEP 2: Parse ===")
	rows := layout.ParseRows(raw)
	skipped := 0
	for _, r := range rows {
		if r.Skipped() {
			skipped++
			fmt.Printf("row %d [%s]: skipped: %s\n", r.Index, r.Key, r.Skip)
		}
	}
	fmt.Printf("Parsed: %d, skipped: %d\n", len(rows), skipped)

	fmt.Println("\n=== STEP 3: Duplicates ===")
	policy := reconcile.DuplicatePolicy(cfg.Sync.Duplicates)
	if !policy.Valid() {
		policy = reconcile.DuplicatesLastWins
	}
	resolved := reconcile.ResolveDuplicates(rows, policy)
	for i, r := range resolved {
		if r.Skipped() && !rows[i].Skipped() {
			fmt.Printf("row %d [%s]: %s\n", r.Index, r.Key, r.Skip)
		}
	}

	desired := reconcile.DesiredSet(resolved)
	fmt.Printf("Desired keys: %d (policy %s)\n", desired.Len(), policy)

	output := map[string]interface{}{
		"path":    path,
		"rows":    len(rows),
		"skipped": skipped,
		"desired": desired.Keys(),
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	os.WriteFile("debug_sheet.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_sheet.json for details.")
}
