package caffit

import (
	"database/sql"
	"fmt"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite",
	Short: "Manage favorite products",
}

var favoriteAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Mark a product as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProductIDArg(args[0])
		if err != nil {
			return err
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.AddFavorite(sqldb, cat, id); err != nil {
				return err
			}
			p, _ := cat.Get(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", p.Name)
			return nil
		})
	},
}

var favoriteRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Unmark a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProductIDArg(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.RemoveFavorite(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed product %d from favorites\n", id)
			return nil
		})
	},
}

var favoriteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite products",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			ids, err := service.ListFavorites(sqldb)
			if err != nil {
				return err
			}
			printProductIDs(cmd, cat, ids, "No favorites yet.")
			return nil
		})
	},
}

func printProductIDs(cmd *cobra.Command, cat *catalog.Repository, ids []catalog.ProductID, emptyMsg string) {
	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), emptyMsg)
		return
	}
	entries := make([]catalog.Entry, 0, len(ids))
	for _, id := range ids {
		if p, ok := cat.Get(id); ok {
			entries = append(entries, catalog.Entry{ID: id, Product: p})
		}
	}
	printProducts(cmd, entries)
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
	favoriteCmd.AddCommand(favoriteAddCmd, favoriteRemoveCmd, favoriteListCmd)
}
