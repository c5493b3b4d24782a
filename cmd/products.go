package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vinoteca/enrich-cli/internal/catalog"
	"github.com/vinoteca/enrich-cli/internal/model"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the ground-truth product catalog",
}

// -- products import --

var productsImportCmd = &cobra.Command{
	Use:   "import <export-file>",
	Short: "Import a product catalog export (CSV or XLSX)",
	Long:  "Loads the catalog export into the products table. Expected columns: product_id, product_variant_id, product_variant_title, pais, tipo, classificacao, uva, tamanho, tampa, harmonizacao. Existing products are updated in place.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		var (
			products []model.Product
			err      error
		)
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			products, err = catalog.ParseXLSX(path)
		} else {
			var raw []byte
			raw, err = os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "read %s", path)
			}
			products, err = catalog.ParseCSV(raw)
		}
		if err != nil {
			return eris.Wrap(err, "products import")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := catalog.Import(ctx, st, products)
		if err != nil {
			return eris.Wrap(err, "products import")
		}
		fmt.Printf("Imported %d products.\n", n)
		return nil
	},
}

// -- products count --

var productsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count imported products",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.CountProducts(ctx)
		if err != nil {
			return eris.Wrap(err, "products count")
		}
		fmt.Println(n)
		return nil
	},
}

func init() {
	productsCmd.AddCommand(productsImportCmd)
	productsCmd.AddCommand(productsCountCmd)
	rootCmd.AddCommand(productsCmd)
}
