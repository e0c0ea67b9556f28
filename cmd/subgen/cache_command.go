package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subgen/internal/jobstore"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the transcript cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheDeleteCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func withCacheStore(ctx *commandContext, fn func(*jobstore.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := jobstore.Open(cfg.Paths.CacheDir)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *jobstore.Store) error {
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "Cached transcripts: none")
					return nil
				}
				const stampLayout = "2006-01-02 15:04"
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.ID[:8],
						rec.Fingerprint,
						rec.Backend,
						formatSeconds(rec.DurationSeconds),
						fmt.Sprintf("%d", rec.SegmentCount),
						rec.UpdatedAt.Local().Format(stampLayout),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Fingerprint", "Backend", "Length", "Segments", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newCacheDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove one cached transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *jobstore.Store) error {
				target := args[0]
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, rec := range records {
					if rec.ID == target || (len(target) >= 8 && strings.HasPrefix(rec.ID, target)) {
						if err := store.Delete(cmd.Context(), rec.ID); err != nil {
							return err
						}
						fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", rec.ID)
						return nil
					}
				}
				return fmt.Errorf("no cached transcript matching %q", target)
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *jobstore.Store) error {
				started := time.Now()
				dropped, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcripts in %s\n", dropped, time.Since(started).Round(time.Millisecond))
				return nil
			})
		},
	}
}
