package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
)

func CheckoutCmd(o *rootOptions) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			summary, err := a.container.CheckoutService.Summary(ctx)
			if err != nil {
				return notice(err, "Checkout failed: ", "")
			}
			if summary.IsEmpty() {
				Notice(a.out, levelInfo, "Your cart is empty.")
				return nil
			}

			pm, err := domain.ParsePaymentMethod(method)
			if err != nil {
				return notice(err, "Checkout failed: ", "")
			}

			printCart(a.out, &summary.CartSummary)
			order, err := a.container.CheckoutService.PlaceOrder(ctx, summary.Items, pm)
			if err != nil {
				return notice(err, "Checkout failed: ", "")
			}

			fmt.Fprintln(a.out)
			Notice(a.out, levelSuccess, "Order placed successfully!")
			fmt.Fprintf(a.out, "Order %s, total %s, paid by %s\n", order.ID, formatRupiah(order.TotalPrice), order.PaymentMethod)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&method, "payment-method", "m", string(domain.PaymentQRIS), "qris or postpaid")

	return cmd
}

func OrdersCmd(o *rootOptions) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			view, err := a.container.OrderService.History(ctx, page)
			if err != nil {
				return notice(err, "", "")
			}
			if view.Data == nil || len(view.Data.Data) == 0 {
				Notice(a.out, levelInfo, "No orders yet.")
				return nil
			}
			printOrders(a.out, view.Data.Data)
			printPageFooter(a.out, view.Data)
			return nil
		}),
	}

	cmd.Flags().IntVar(&page, "page", 1, "page to show")

	return cmd
}

func OrderCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order ORDER_ID",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			order, err := a.container.OrderService.Order(ctx, args[0])
			if err != nil {
				return notice(err, "", "")
			}
			printOrder(a.out, order)
			return nil
		}),
	}
}
