package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/catalog"
	"storefront/domain"
	"storefront/logx"
)

// addQuantity adds qty units of p through the store.
func addQuantity(p domain.Product, qty int) {
	appState.AddToCart(p)
	if qty <= 1 {
		return
	}
	cart := appState.Cart()
	if i := cart.Find(p.ID); i >= 0 {
		appState.UpdateCartQuantity(p.ID, cart[i].Quantity+qty-1)
	}
}

// parseCartLines accepts a JSON array of cart lines or one line per row (NDJSON).
func parseCartLines(b []byte) ([]domain.CartLine, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}

	var lines []domain.CartLine
	if btrim[0] == '[' {
		if err := json.Unmarshal(btrim, &lines); err != nil {
			return nil, err
		}
		return lines, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(btrim))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var l domain.CartLine
		if err := json.Unmarshal(line, &l); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func printCart(cmd *cobra.Command, cart domain.Cart) {
	w := cmd.OutOrStdout()
	if len(cart) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	for _, l := range cart {
		fmt.Fprintf(w, "%d | %s | %s x %d | %s\n",
			l.ID, l.Title, domain.FormatPrice(l.Price, currency), l.Quantity,
			domain.FormatPrice(l.LineTotal(), currency))
	}
	fmt.Fprintf(w, "Subtotal: %s (%d items)\n", domain.FormatPrice(cart.Subtotal(), currency), cart.ItemCount())
}

func init() {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	rootCmd.AddCommand(cartCmd)

	// list
	var lOutput string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lOutput == "json" {
				return printJSON(cmd.OutOrStdout(), appState.Cart())
			}
			printCart(cmd, appState.Cart())
			return nil
		},
	}
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format")
	cartCmd.AddCommand(listCmd)

	// add
	var quantity int
	addCmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a catalog product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if quantity <= 0 {
				return domain.NewInvalidFilterError("quantity", "must be positive", quantity)
			}
			products, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			p, err := catalog.FindByID(products, id)
			if err != nil {
				return err
			}
			addQuantity(p, quantity)
			logx.Info().Int("product_id", id).Int("quantity", quantity).Msg("added to cart")
			printCart(cmd, appState.Cart())
			return nil
		},
	}
	addCmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "units to add")
	cartCmd.AddCommand(addCmd)

	// remove
	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			appState.RemoveFromCart(id)
			printCart(cmd, appState.Cart())
			return nil
		},
	}
	cartCmd.AddCommand(removeCmd)

	// set
	setCmd := &cobra.Command{
		Use:   "set <id> <quantity>",
		Short: "Set the quantity of a cart line; 0 or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return domain.NewInvalidFilterError("quantity", "expected an integer", args[1])
			}
			appState.UpdateCartQuantity(id, q)
			printCart(cmd, appState.Cart())
			return nil
		},
	}
	cartCmd.AddCommand(setCmd)

	// clear
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			appState.ClearCart()
			fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
			return nil
		},
	}
	cartCmd.AddCommand(clearCmd)

	// export
	var exportFile string
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export the cart to JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			b, err := json.MarshalIndent(appState.Cart(), "", "  ")
			if err != nil {
				return err
			}
			return os.WriteFile(exportFile, b, 0o644)
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	cartCmd.AddCommand(exportCmd)

	// import (JSON array or NDJSON)
	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Add cart lines from JSON or NDJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}
			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}
			lines, err := parseCartLines(b)
			if err != nil {
				return err
			}
			for i, l := range lines {
				if l.ID <= 0 {
					return fmt.Errorf("line %d: %w", i+1, domain.NewInvalidFilterError("id", "missing product id", l.ID))
				}
			}
			imported, skipped := 0, 0
			for _, l := range lines {
				// same rule as a persisted cart: empty lines are dropped
				if l.Quantity <= 0 {
					skipped++
					continue
				}
				addQuantity(l.Product, l.Quantity)
				imported++
			}
			logx.Info().Int("lines", imported).Int("skipped", skipped).Str("file", importFile).Msg("cart imported")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d lines\n", imported)
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d lines with quantity <= 0\n", skipped)
			}
			return nil
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")
	cartCmd.AddCommand(importCmd)
}
