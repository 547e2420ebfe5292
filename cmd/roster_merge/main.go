// One-off: copy per-guest companion counts from a "name,qtd" CSV into the participants
// column of the guest list. Names match exactly after trimming. Output is UTF-8.
// Usage: go run ./cmd/roster_merge -counts qtd.csv -roster participants.csv -out participants_updated.csv
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/event-registration/internal/roster"
)

func main() {
	countsPath := flag.String("counts", "qtd.csv", "CSV with name and qtd columns")
	rosterPath := flag.String("roster", "participants.csv", "guest list to update")
	outPath := flag.String("out", "participants_updated.csv", "where to write the updated guest list")
	encoding := flag.String("encoding", "utf-8", "encoding of both input files (utf-8, latin-1, windows-1252)")
	flag.Parse()

	counts, err := readCounts(*countsPath, *encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	table, err := readRoster(*rosterPath, *encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	notFound, err := roster.MergeCounts(table, counts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var buf bytes.Buffer
	if err := roster.WriteTable(&buf, table); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write failed:", err)
		os.Exit(1)
	}

	fmt.Printf("%d guests, %d updated, written to %s\n", len(table.Rows), len(table.Rows)-len(notFound), *outPath)
	if len(notFound) > 0 {
		fmt.Println("Not found in counts (value kept):")
		for _, name := range notFound {
			fmt.Println(" -", name)
		}
	}
}

func readCounts(path, encoding string) (map[string]int, error) {
	text, err := readText(path, encoding)
	if err != nil {
		return nil, err
	}
	return roster.ReadCounts(strings.NewReader(text))
}

func readRoster(path, encoding string) (*roster.Table, error) {
	text, err := readText(path, encoding)
	if err != nil {
		return nil, err
	}
	return roster.ReadTable(strings.NewReader(text))
}

func readText(path, encoding string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return roster.Decode(data, encoding)
}
