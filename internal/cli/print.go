package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/prohmpiriya/canteen-storefront/internal/apiclient"
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/service"
)

const (
	levelSuccess = "success"
	levelError   = "error"
	levelInfo    = "info"
)

var (
	errNotLoggedIn  = errors.New("you are not logged in")
	errAccessDenied = errors.New("access denied")
)

// cliError is a failure already phrased for the shopper
type cliError struct {
	msg  string
	hint string
	err  error
}

func (e *cliError) Error() string { return e.msg }
func (e *cliError) Unwrap() error { return e.err }

// notice turns err into a shopper-facing failure, e.g. prefix "Checkout failed: "
func notice(err error, prefix, hint string) error {
	return &cliError{msg: prefix + apiclient.Message(err), hint: hint, err: err}
}

func displayError(err error) string {
	var ce *cliError
	if errors.As(err, &ce) {
		if ce.hint != "" {
			return ce.msg + "\n  " + ce.hint
		}
		return ce.msg
	}
	return apiclient.Message(err)
}

// Notice prints a notification line
func Notice(w io.Writer, level, msg string) {
	var c *color.Color
	switch level {
	case levelSuccess:
		c = color.New(color.FgHiGreen)
	case levelError:
		c = color.New(color.FgHiRed)
	default:
		c = color.New(color.FgHiCyan)
	}
	c.Fprintf(w, "  • ")
	c.Fprintln(w, msg)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}

// formatRupiah renders whole rupiah the id-ID way, e.g. Rp 15.000
func formatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + "Rp " + b.String()
}

func stockLabel(p *domain.Product) string {
	if !p.InStock() {
		return "out of stock"
	}
	return strconv.Itoa(p.Stock)
}

func printCategories(w io.Writer, categories []domain.Category) {
	tw := newTabWriter(w)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s\t%s\t%s\n", "ID", "NAME", "SLUG")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, c.Slug)
	}
}

func printProducts(w io.Writer, products []domain.Product) {
	tw := newTabWriter(w)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", "ID", "NAME", "CATEGORY", "PRICE", "STOCK")
	for i := range products {
		p := &products[i]
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, category, formatRupiah(p.Price), stockLabel(p))
	}
}

func printProduct(w io.Writer, p *domain.Product) {
	fmt.Fprintf(w, "%s (#%d)\n", p.Name, p.ID)
	if p.Category != nil {
		fmt.Fprintf(w, "Category: %s\n", p.Category.Name)
	}
	fmt.Fprintf(w, "Price:    %s\n", formatRupiah(p.Price))
	fmt.Fprintf(w, "Stock:    %s\n", stockLabel(p))
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", *p.Description)
	}
}

func printCart(w io.Writer, cart *service.CartSummary) {
	if cart.IsEmpty() {
		Notice(w, levelInfo, "Your cart is empty.")
		return
	}

	tw := newTabWriter(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", "ITEM", "PRODUCT", "PRICE", "QTY", "TOTAL")
	for i := range cart.Items {
		item := &cart.Items[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", item.ID, item.Product.Name, formatRupiah(item.Product.Price), item.Quantity, formatRupiah(item.LineTotal()))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d item(s), subtotal %s\n", cart.Count, formatRupiah(cart.Subtotal))
}

func printOrders(w io.Writer, orders []domain.Order) {
	tw := newTabWriter(w)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", "ORDER", "DATE", "TOTAL", "METHOD", "STATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04"), formatRupiah(o.TotalPrice), o.PaymentMethod, o.PaymentStatus)
	}
}

func printOrder(w io.Writer, o *domain.Order) {
	fmt.Fprintf(w, "Order %s\n", o.ID)
	fmt.Fprintf(w, "Placed:  %s\n", o.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Payment: %s (%s)\n\n", o.PaymentMethod, o.PaymentStatus)

	tw := newTabWriter(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", "PRODUCT", "PRICE", "QTY", "TOTAL")
	for _, p := range o.Products {
		if p.Pivot == nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.Name, formatRupiah(p.Pivot.Price), p.Pivot.Quantity, formatRupiah(p.Pivot.Price*int64(p.Pivot.Quantity)))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nTotal %s\n", formatRupiah(o.TotalPrice))
}

func printPageFooter[T any](w io.Writer, page *domain.Page[T]) {
	if page == nil {
		return
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total)
}
