package cli

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/prohmpiriya/canteen-storefront/internal/service"
)

func CategoriesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "List menu categories",
		Args:    cobra.NoArgs,
		RunE: o.runE(accessPublic, func(ctx context.Context, a *app, args []string) error {
			categories, err := a.container.CatalogService.Categories(ctx)
			if err != nil {
				return notice(err, "", "")
			}
			printCategories(a.out, categories)
			return nil
		}),
	}
}

func ProductsCmd(o *rootOptions) *cobra.Command {
	var (
		page   int
		filter service.ProductFilter
	)

	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"menu"},
		Short:   "Browse the menu",
		Args:    cobra.NoArgs,
		RunE: o.runE(accessPublic, func(ctx context.Context, a *app, args []string) error {
			view, err := a.container.CatalogService.Browse(ctx, filter, page)
			if err != nil {
				return notice(err, "", "")
			}
			if view.Data == nil || len(view.Data.Data) == 0 {
				Notice(a.out, levelInfo, "No products found.")
				return nil
			}
			printProducts(a.out, view.Data.Data)
			printPageFooter(a.out, view.Data)
			return nil
		}),
	}

	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "search by name")
	cmd.Flags().IntVarP(&filter.CategoryID, "category", "c", 0, "only show this category id")

	return cmd
}

func ProductCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product PRODUCT_ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessPublic, func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := a.container.CatalogService.Product(ctx, id)
			if err != nil {
				return notice(err, "", "")
			}
			printProduct(a.out, product)
			return nil
		}),
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", raw)
	}
	return id, nil
}
