package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
)

// maxImageSize matches the storefront's upload limit
const maxImageSize = 2 << 20

func AdminCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the menu and orders (admin only)",
	}

	cmd.AddCommand(adminCategoryCmd(o))
	cmd.AddCommand(adminProductCmd(o))
	cmd.AddCommand(adminOrderCmd(o))

	return cmd
}

// === Categories ===

func adminCategoryCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Create, rename or delete categories",
	}

	var create, update categoryFlags

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessAdmin, func(ctx context.Context, a *app, args []string) error {
			category, err := a.container.AdminService.CreateCategory(ctx, create.request())
			if err != nil {
				return notice(err, "Failed to create category: ", "")
			}
			Notice(a.out, levelSuccess, fmt.Sprintf("Category %q created (#%d)", category.Name, category.ID))
			return nil
		}),
	}
	create.bind(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update CATEGORY_ID",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessAdmin, func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			category, err := a.container.AdminService.UpdateCategory(ctx, id, update.request())
			if err != nil {
				return notice(err, "Failed to update category: ", "")
			}
			Notice(a.out, levelSuccess, fmt.Sprintf("Category %q updated", category.Name))
			return nil
		}),
	}
	update.bind(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete CATEGORY_ID",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessAdmin, func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.container.AdminService.DeleteCategory(ctx, id); err != nil {
				return notice(err, "Failed to delete category: ", "")
			}
			Notice(a.out, levelSuccess, "Category deleted")
			return nil
		}),
	}

	cmd.AddCommand(createCmd, updateCmd, deleteCmd)
	return cmd
}

type categoryFlags struct {
	name        string
	slug        string
	description string
}

func (f *categoryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "category name")
	cmd.Flags().StringVar(&f.slug, "slug", "", "url slug (derived from the name when empty)")
	cmd.Flags().StringVar(&f.description, "description", "", "category description")
	cmd.MarkFlagRequired("name")
}

func (f *categoryFlags) request() *domain.CategoryRequest {
	req := &domain.CategoryRequest{Name: f.name, Slug: f.slug}
	if f.description != "" {
		desc := f.description
		req.Description = &desc
	}
	return req
}

// === Products ===

func adminProductCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Create, update or delete products",
	}

	var create, update productFlags

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessAdmin, func(ctx context.Context, a *app, args []string) error {
			form, err := create.form()
			if err != nil {
				return err
			}
			product, err := a.container.AdminService.CreateProduct(ctx, form)
			if err != nil {
				return notice(err, "Failed to create product: ", "")
			}
			Notice(a.out, levelSuccess, fmt.Sprintf("Product %q created (#%d)", product.Name, product.ID))
			return nil
		}),
	}
	create.bind(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update PRODUCT_ID",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessAdmin, func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			form, err := update.form()
			if err != nil {
				return err
			}
			product, err := a.container.AdminService.UpdateProduct(ctx, id, form)
			if err != nil {
				return notice(err, "Failed to update product: ", "")
			}
			Notice(a.out, levelSuccess, fmt.Sprintf("Product %q updated", product.Name))
			return nil
		}),
	}
	update.bind(updateCmd)

	var force bool
	deleteCmd := &cobra.Command{
		Use:   "delete PRODUCT_ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessAdmin, func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			del := a.container.AdminService.DeleteProduct
			if force {
				del = a.container.AdminService.ForceDeleteProduct
			}
			if err := del(ctx, id); err != nil {
				return notice(err, "Failed to delete product: ", "")
			}
			Notice(a.out, levelSuccess, "Product deleted")
			return nil
		}),
	}
	deleteCmd.Flags().BoolVar(&force, "force", false, "delete permanently")

	cmd.AddCommand(createCmd, updateCmd, deleteCmd)
	return cmd
}

type productFlags struct {
	categoryID  int
	name        string
	description string
	price       int64
	stock       int
	image       string
}

func (f *productFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.categoryID, "category", 0, "category id")
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.description, "description", "", "product description")
	cmd.Flags().Int64Var(&f.price, "price", 0, "price in rupiah")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "units in stock")
	cmd.Flags().StringVar(&f.image, "image", "", "path to a product image (max 2MB)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("price")
}

func (f *productFlags) form() (*domain.ProductForm, error) {
	form := &domain.ProductForm{
		Name:        f.name,
		Description: f.description,
		Price:       f.price,
		Stock:       f.stock,
	}
	if f.categoryID > 0 {
		id := f.categoryID
		form.CategoryID = &id
	}

	if f.image != "" {
		info, err := os.Stat(f.image)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read image")
		}
		if info.Size() > maxImageSize {
			return nil, errors.Errorf("image %s is larger than 2MB", filepath.Base(f.image))
		}
		content, err := os.ReadFile(f.image)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read image")
		}
		form.Image = &domain.Upload{Filename: filepath.Base(f.image), Content: content}
	}
	return form, nil
}

// === Orders ===

func adminOrderCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Settle or delete orders",
	}

	statusCmd := &cobra.Command{
		Use:   "status ORDER_ID STATUS",
		Short: "Set the payment status: pending, paid or unpaid",
		Args:  cobra.ExactArgs(2),
		RunE: o.runE(accessAdmin, func(ctx context.Context, a *app, args []string) error {
			order, err := a.container.AdminService.UpdateOrderStatus(ctx, args[0], domain.PaymentStatus(args[1]))
			if err != nil {
				return notice(err, "Failed to update order: ", "")
			}
			Notice(a.out, levelSuccess, fmt.Sprintf("Order %s marked %s", order.ID, order.PaymentStatus))
			return nil
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ORDER_ID",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessAdmin, func(ctx context.Context, a *app, args []string) error {
			if err := a.container.AdminService.DeleteOrder(ctx, args[0]); err != nil {
				return notice(err, "Failed to delete order: ", "")
			}
			Notice(a.out, levelSuccess, "Order deleted")
			return nil
		}),
	}

	cmd.AddCommand(statusCmd, deleteCmd)
	return cmd
}
