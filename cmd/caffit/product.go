package caffit

import (
	"fmt"
	"strings"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Browse the drink catalog",
}

var productCategory string

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		entries := cat.All()
		if productCategory != "" {
			entries = cat.ByCategory(productCategory)
			if len(entries) == 0 {
				return fmt.Errorf("no products in category %q", productCategory)
			}
		}
		printProducts(cmd, entries)
		return nil
	},
}

var productCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, c := range cat.Categories() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", c, len(cat.ByCategory(c)))
		}
		return nil
	},
}

var productSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search products by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		entries := cat.Search(strings.Join(args, " "))
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No products matched.")
			return nil
		}
		printProducts(cmd, entries)
		return nil
	},
}

func printProducts(cmd *cobra.Command, entries []catalog.Entry) {
	fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tCATEGORY\tCAFFEINE\tSUGAR")
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.0fmg\t%s\n",
			e.ID, e.Product.Name, e.Product.Category, e.Product.CaffeineMg, formatSugar(e.Product))
	}
}

func init() {
	rootCmd.AddCommand(productCmd)
	productCmd.AddCommand(productListCmd, productCategoriesCmd, productSearchCmd)

	productListCmd.Flags().StringVar(&productCategory, "category", "", "Filter by category")
}
