package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fexplorer/internal/fsio"
	"fexplorer/internal/manifest"
	"fexplorer/internal/store"
)

const defaultManifestPath = "assets/cobweb/manifest.cob"

func newManifestCmd() *cobra.Command {
	var (
		check     bool
		ext       string
		assetRoot string
	)

	cmd := &cobra.Command{
		Use:   "manifest [path]",
		Short: "Regenerate the scene manifest",
		Long: `Regenerate the manifest that imports every scene file next to and below it.

The file is only written when its content changes. With --check nothing is
written and the command fails when the manifest is out of date.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			path := defaultManifestPath
			if len(args) > 0 {
				path = args[0]
			}
			gen := manifest.Generator{Ext: ext, AssetRoot: assetRoot}
			out := cc.OutOrStdout()

			if check {
				if err := gen.Check(path); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(out, "%s is up to date\n", path)
				return nil
			}

			changed, err := gen.Write(path)
			if err != nil {
				return fmt.Errorf("writing manifest %s: %w", path, err)
			}
			if changed {
				fmt.Fprintf(out, "wrote %s\n", path)
			} else {
				fmt.Fprintf(out, "%s unchanged\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Fail if the manifest is out of date instead of writing it")
	cmd.Flags().StringVar(&ext, "ext", manifest.DefaultExt, "Scene file extension")
	cmd.Flags().StringVar(&assetRoot, "asset-root", "", "Directory manifest paths are relative to (default: parent of the manifest directory)")

	return cmd
}

func newLsCmd(opts *rootOptions) *cobra.Command {
	var (
		all  bool
		long bool
	)

	cmd := &cobra.Command{
		Use:   "ls [dir...]",
		Short: "List directories without starting the explorer",
		RunE: func(cc *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cc, opts)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			showHidden := all || cfg.ShowHidden

			listings := make([]fsio.Listing, len(args))
			g, ctx := errgroup.WithContext(cc.Context())
			g.SetLimit(runtime.NumCPU())
			for i, arg := range args {
				i, arg := i, arg
				g.Go(func() error {
					dir, err := fsio.Canonicalize(".", arg)
					if err != nil {
						return err
					}
					listing, err := fsio.ReadDir(ctx, dir)
					if err != nil {
						return err
					}
					listings[i] = listing
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cc.OutOrStdout()
			for i, listing := range listings {
				if len(listings) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "%s:\n", listing.Path)
				}
				if err := printListing(out, listing.Visible(showHidden), long); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden entries")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show type, size and modification time")

	return cmd
}

func printListing(out io.Writer, entries []fsio.Entry, long bool) error {
	if !long {
		for _, e := range entries {
			fmt.Fprintln(out, displayName(e))
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		size := ""
		if e.Type == fsio.File {
			size = formatSize(e.Size)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Type, size, formatAge(e.ModTime), displayName(e))
	}
	return tw.Flush()
}

func newRecentCmd(opts *rootOptions) *cobra.Command {
	var (
		limit int
		prune bool
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Print the most recently visited locations",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			if limit == 0 || limit < -1 {
				return fmt.Errorf("--limit must be positive or -1 for all, got %d", limit)
			}
			cfg, _, err := loadConfig(cc, opts)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cc.Context()
			out := cc.OutOrStdout()

			if prune {
				n, err := st.Prune(ctx)
				if err != nil {
					return fmt.Errorf("pruning locations: %w", err)
				}
				fmt.Fprintf(out, "removed %d locations\n", n)
			}

			locs, err := st.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(locs) == 0 && !prune {
				return errors.New("no locations recorded yet")
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, loc := range locs {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i+1, loc.Path, loc.Visits, formatAge(loc.LastVisit))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of locations to print, -1 for all")
	cmd.Flags().BoolVar(&prune, "prune", false, "Forget locations that no longer exist first")

	return cmd
}
