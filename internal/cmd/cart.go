package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shopfront/internal/app"
	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

// variantSeparator joins cart line attributes for display and --variant.
const variantSeparator = " / "

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the local shopping cart",
	Long: `The cart lives only on this machine. Each line is a product plus its
variant (unit and category); adding the same variant again raises the
quantity.

Examples:
  shopfront cart add 3f6c9a --quantity 2
  shopfront cart add 3f6c9a --variant "Caja / Ferretería"
  shopfront cart remove 3f6c9a
  shopfront cart delete 3f6c9a --variant "Caja / Ferretería"
  shopfront cart list
  shopfront cart clear --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var cartListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the cart and its totals",
	Args:    cobra.NoArgs,
	RunE:    runCartList,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <productId>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <productId>",
	Short: "Take one unit off a cart line",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartDeleteCmd = &cobra.Command{
	Use:     "delete <productId>",
	Aliases: []string{"rm"},
	Short:   "Drop a cart line whatever its quantity",
	Args:    cobra.ExactArgs(1),
	RunE:    runCartDelete,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

var (
	cartQuantity int
	cartVariant  string
	cartYes      bool
)

func init() {
	cartAddCmd.Flags().IntVarP(&cartQuantity, "quantity", "q", 1, "units to add")
	for _, c := range []*cobra.Command{cartAddCmd, cartRemoveCmd, cartDeleteCmd} {
		c.Flags().StringVar(&cartVariant, "variant", "", `line variant, e.g. "Pieza / Ropa"`)
	}
	cartClearCmd.Flags().BoolVarP(&cartYes, "yes", "y", false, "do not ask for confirmation")

	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartRemoveCmd, cartDeleteCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func parseVariant(s string) []string {
	parts := strings.Split(s, variantSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// resolveLine finds the cart line a command refers to. Without --variant the
// product must have exactly one line.
func resolveLine(items []domain.CartItem, productID, variant string) ([]string, error) {
	if variant != "" {
		attrs := parseVariant(variant)
		for _, item := range items {
			if item.SameLine(productID, attrs) {
				return item.Attributes, nil
			}
		}
		return nil, CartLineNotFoundError(productID)
	}

	var variants [][]string
	for _, item := range items {
		if item.ID == productID {
			variants = append(variants, item.Attributes)
		}
	}
	switch len(variants) {
	case 0:
		return nil, CartLineNotFoundError(productID)
	case 1:
		return variants[0], nil
	default:
		names := make([]string, 0, len(variants))
		for _, v := range variants {
			names = append(names, strings.Join(v, variantSeparator))
		}
		return nil, AmbiguousCartLineError(productID, names)
	}
}

func printCart(cc *CommandContext, a *app.App) error {
	return cc.print(ux.CartView{Cart: a.Store.State().Cart, Styles: cc.Styles})
}

func runCartList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		return printCart(cc, a)
	})
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	if cartQuantity <= 0 {
		return NewErrorWithSuggestions("invalid argument: --quantity must be at least 1", nil,
			"Use: shopfront cart add "+args[0]+" --quantity 1")
	}

	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Store.FetchProductByID(ctx, args[0]); err != nil {
			return err
		}
		product := *a.Store.State().Products.Current

		item := domain.CartItemFromProduct(product, cartQuantity)
		if cartVariant != "" {
			item.Attributes = parseVariant(cartVariant)
		}
		a.Store.AddToCart(ctx, item)
		return printCart(cc, a)
	})
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		attrs, err := resolveLine(a.Store.State().Cart.Items, args[0], cartVariant)
		if err != nil {
			return err
		}
		a.Store.RemoveCartItem(ctx, args[0], attrs)
		return printCart(cc, a)
	})
}

func runCartDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		attrs, err := resolveLine(a.Store.State().Cart.Items, args[0], cartVariant)
		if err != nil {
			return err
		}
		a.Store.RemoveLineItem(ctx, args[0], attrs)
		return printCart(cc, a)
	})
}

func runCartClear(cmd *cobra.Command, args []string) error {
	if !cartYes && ux.Interactive() {
		ok, err := ux.Confirm("¿Vaciar el carrito?", false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		a.Store.ClearCart(ctx)
		return printCart(cc, a)
	})
}
