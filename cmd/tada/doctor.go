package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IlyaRozhok/TaDa-sub005/internal/config"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check your tada environment",
	Long: `Check your tada environment.

Verifies that configuration loads, the preference schema is valid, the data
directory is writable, and the preference store answers. Exits non-zero if
any required check fails.`,
	RunE: runDoctor,
}

type checkResult struct {
	name string
	err  error
	note string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var results []checkResult

	cfg, err := config.Load()
	results = append(results, checkResult{name: "configuration", err: err})
	if err != nil {
		// Everything downstream needs config; report what we have and stop.
		return printResults(results)
	}

	s, err := schema.Resolve(cfg.SchemaFile)
	note := "embedded schema"
	if cfg.SchemaFile != "" {
		note = cfg.SchemaFile
	}
	if err == nil {
		note = fmt.Sprintf("%s, %d steps", note, len(s.Steps))
	}
	results = append(results, checkResult{name: "preference schema", err: err, note: note})

	results = append(results, checkResult{
		name: "data directory",
		err:  checkWritable(cfg.DataDir),
		note: cfg.DataDir,
	})

	results = append(results, checkResult{
		name: "preference store",
		err:  checkStore(cfg.APIURL),
		note: cfg.APIURL,
	})

	if editor := os.Getenv("EDITOR"); editor != "" {
		results = append(results, checkResult{name: "$EDITOR", note: editor})
	} else {
		results = append(results, checkResult{name: "$EDITOR", note: "unset, ctrl+e disabled in the wizard"})
	}

	return printResults(results)
}

// checkWritable verifies the data directory exists (creating it if needed)
// and accepts writes.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}

// checkStore pings the store's healthcheck endpoint.
func checkStore(apiURL string) error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(strings.TrimRight(apiURL, "/") + "/healthcheck")
	if err != nil {
		return fmt.Errorf("unreachable (is 'tada serve' running?): %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned %s", resp.Status)
	}
	return nil
}

func printResults(results []checkResult) error {
	failed := 0
	for _, r := range results {
		mark := "✓"
		detail := r.note
		if r.err != nil {
			mark = "✗"
			failed++
			detail = r.err.Error()
			if r.note != "" {
				detail = r.note + ": " + detail
			}
		}
		if detail != "" {
			fmt.Printf("%s %-18s %s\n", mark, r.name, detail)
		} else {
			fmt.Printf("%s %s\n", mark, r.name)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Println("\nAll checks passed.")
	return nil
}
