// cmd/gemfinder/list.go
package main

import (
	"context"
	"strconv"

	apperrors "gemfinder/internal/common/errors"
	"gemfinder/internal/filter"
	"gemfinder/internal/listing"

	"github.com/spf13/cobra"
)

type listOptions struct {
	page      int
	route     string
	category  string
	minRating float64
	location  string
	refetch   bool
}

func newListCmd() *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accepted gems on one server page",
		Long: `Fetches one page of gems, keeps accepted ones, applies the category route
and then the filters. The count shown is for the current server page only.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			return runList(ctx, a, cmd, opts)
		}),
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "server page (1-based)")
	cmd.Flags().StringVar(&opts.route, "route", "", "category route slug, e.g. coffee-shops")
	cmd.Flags().StringVar(&opts.category, "category", "", "category id filter")
	cmd.Flags().Float64Var(&opts.minRating, "min-rating", 0, "minimum average rating (0 = any)")
	cmd.Flags().StringVar(&opts.location, "location", "", "exact location, case-insensitive")
	cmd.Flags().BoolVar(&opts.refetch, "refetch-on-filter", false, "re-fetch page 1 whenever a filter changes")
	return cmd
}

func runList(ctx context.Context, a *app, cmd *cobra.Command, opts *listOptions) error {
	cfg := listing.LoadConfig(a.cfg)
	if cmd.Flags().Changed("refetch-on-filter") {
		cfg.RefetchOnFilterChange = opts.refetch
	}

	ctrl := listing.NewController(a.client, filter.NewStore(), cfg, a.log)
	defer ctrl.Close()

	// Filters are chosen before the first fetch, so they never move the page.
	filters := map[string]string{}
	if cmd.Flags().Changed("category") {
		filters[filter.KeyCategory] = opts.category
	}
	if cmd.Flags().Changed("min-rating") {
		filters[filter.KeyAvgRating] = strconv.FormatFloat(opts.minRating, 'f', -1, 64)
	}
	if cmd.Flags().Changed("location") {
		filters[filter.KeyGemLocation] = opts.location
	}
	for _, key := range filter.Keys {
		if value, ok := filters[key]; ok {
			if err := ctrl.SetFilter(ctx, key, value); err != nil {
				return err
			}
		}
	}

	err := ctrl.Open(ctx, opts.route, opts.page)
	if apperrors.CodeOf(err) == apperrors.ErrCodeInvalidPage {
		return err
	}

	a.print(a.renderer.Listing(ctrl.Snapshot(), ctrl.Presenter(), a.state.InWishlist))
	return err
}
