// cmd/gemfinder/categories.go
package main

import (
	"context"

	"gemfinder/internal/categories"

	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	var (
		search string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse categories and their route slugs",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			browser := categories.NewBrowser(a.client, categories.LoadConfig(a.cfg), a.log)
			if err := browser.Load(ctx); err != nil {
				return err
			}
			result, err := browser.View(search, page)
			if err != nil {
				return err
			}
			a.print(a.renderer.Categories(result))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name search")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page of results")
	return cmd
}
