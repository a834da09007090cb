package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

const cartFailurePrefix = "Failed to update cart: "

func CartCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			cart, err := a.container.CartService.Summary(ctx)
			if err != nil {
				return notice(err, "", "")
			}
			printCart(a.out, cart)
			return nil
		}),
	}

	cmd.AddCommand(cartAddCmd(o))
	cmd.AddCommand(cartStepCmd(o, "inc", "Add one unit to a cart line", true))
	cmd.AddCommand(cartStepCmd(o, "dec", "Remove one unit from a cart line; the last unit removes it", false))
	cmd.AddCommand(cartRemoveCmd(o))

	return cmd
}

func cartAddCmd(o *rootOptions) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Put a product in the cart",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			productID, err := parseID(args[0])
			if err != nil {
				return err
			}

			item, err := a.container.CartService.Add(ctx, productID, quantity)
			if err != nil {
				return notice(err, cartFailurePrefix, "")
			}

			name := item.Product.Name
			if name == "" {
				name = "Item"
			}
			Notice(a.out, levelSuccess, fmt.Sprintf("%s added to cart!", name))
			return nil
		}),
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")

	return cmd
}

func cartStepCmd(o *rootOptions, use, short string, up bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ITEM_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			itemID, err := parseID(args[0])
			if err != nil {
				return err
			}

			step := a.container.CartService.Decrease
			if up {
				step = a.container.CartService.Increase
			}
			if err := step(ctx, itemID); err != nil {
				return notice(err, cartFailurePrefix, "")
			}

			cart, err := a.container.CartService.Summary(ctx)
			if err != nil {
				return notice(err, "", "")
			}
			printCart(a.out, cart)
			return nil
		}),
	}
}

func cartRemoveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ITEM_ID",
		Aliases: []string{"remove"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			itemID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.container.CartService.Remove(ctx, itemID); err != nil {
				return notice(err, cartFailurePrefix, "")
			}
			Notice(a.out, levelSuccess, "Item removed from cart")
			return nil
		}),
	}
}
