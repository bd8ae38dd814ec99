package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/coverletters"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/storage/db"
	"coverletter-backend/internal/shared/util"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Summarize cached cover letters",
	Long:  "Load the configured letter cache (Postgres when DATABASE_URL is set, otherwise the JSON file) and print the number of letters per job description.",
	RunE:  runCache,
}

var cacheFile string

func init() {
	cacheCmd.Flags().StringVar(&cacheFile, "file", "", "Read this cache file instead of the configured backend")
	rootCmd.AddCommand(cacheCmd)
}

func runCache(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var store coverletters.Store
	switch {
	case cacheFile != "":
		store = coverletters.NewFileStore(cacheFile, true)
	case cfg.DatabaseURL != "":
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFor(db.ProfileMigrate))
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		store = &coverletters.PGStore{DB: sqlDB}
	default:
		store = coverletters.NewFileStore(cfg.CachePath, true)
	}

	m, err := store.Load(ctx)
	if err != nil {
		return err
	}
	return printSummary(cmd, m)
}

func printSummary(cmd *cobra.Command, m coverletters.Mapping) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY_HASH\tLETTERS\tJOB_DESCRIPTION")
	total := 0
	for _, k := range keys {
		total += len(m[k])
		fmt.Fprintf(w, "%s\t%d\t%s\n", util.HashKey(k)[:12], len(m[k]), preview(k, 60))
	}
	fmt.Fprintf(w, "TOTAL\t%d\t%d job descriptions\n", total, len(keys))
	return w.Flush()
}

func preview(s string, n int) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' || r == '\t' {
			runes[i] = ' '
		}
	}
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return string(runes)
}
