package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flag name -> config key
var persistentFlags = map[string]string{
	"api-url":         "API_BASE_URL",
	"api-timeout":     "API_TIMEOUT",
	"session-backend": "SESSION_BACKEND",
	"session-file":    "SESSION_FILE",
	"session-key":     "SESSION_KEY",
	"redis-host":      "REDIS_HOST",
	"redis-port":      "REDIS_PORT",
}

func RootCmd() *cobra.Command {
	return newRootCmd(viper.New())
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "canteenctl",
		Short:         "Shop the canteen from the terminal",
		Long:          `canteenctl signs in to the canteen backend, browses the menu, manages the cart and places orders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("api-url", "", "backend API base URL (env API_BASE_URL)")
	pf.Duration("api-timeout", 0, "backend request timeout (env API_TIMEOUT)")
	pf.String("session-backend", "", "where the session is kept: file or redis (env SESSION_BACKEND)")
	pf.String("session-file", "", "session file for the file backend (env SESSION_FILE)")
	pf.String("session-key", "", "key the session is stored under (env SESSION_KEY)")
	pf.String("redis-host", "", "redis host for the redis backend (env REDIS_HOST)")
	pf.Int("redis-port", 0, "redis port for the redis backend (env REDIS_PORT)")
	pf.BoolP("verbose", "v", false, "log backend calls")

	for name, key := range persistentFlags {
		v.BindPFlag(key, pf.Lookup(name))
	}

	opts := &rootOptions{v: v}

	cmd.AddCommand(LoginCmd(opts))
	cmd.AddCommand(RegisterCmd(opts))
	cmd.AddCommand(LogoutCmd(opts))
	cmd.AddCommand(WhoamiCmd(opts))
	cmd.AddCommand(CategoriesCmd(opts))
	cmd.AddCommand(ProductsCmd(opts))
	cmd.AddCommand(ProductCmd(opts))
	cmd.AddCommand(CartCmd(opts))
	cmd.AddCommand(CheckoutCmd(opts))
	cmd.AddCommand(OrdersCmd(opts))
	cmd.AddCommand(OrderCmd(opts))
	cmd.AddCommand(AdminCmd(opts))

	return cmd
}

// rootOptions is shared by every subcommand
type rootOptions struct {
	v *viper.Viper
}

func InitAndExecute() {
	cmd := RootCmd()
	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w)
	Notice(w, levelError, displayError(err))
}
