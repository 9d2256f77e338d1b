package cmd

import (
	"fmt"
	"os"
	"strings"

	"obracalc-backend/lib/pricing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	queryCountry  string
	queryRegion   string
	queryCity     string
	queryCurrency string
)

func init() {
	queryCmd.Flags().StringVar(&queryCountry, "country", "", "ISO country code, e.g. BR")
	queryCmd.Flags().StringVar(&queryRegion, "region", "", "state or province, e.g. SP")
	queryCmd.Flags().StringVar(&queryCity, "city", "", "city name, e.g. Campinas")
	queryCmd.Flags().StringVar(&queryCurrency, "currency", "", "target currency, e.g. BRL")
	queryCmd.MarkFlagRequired("country")
	queryCmd.MarkFlagRequired("currency")

	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <category>:<code> [<category>:<code> ...]",
	Short: "Looks up prices for the given materials at a location.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var materials []pricing.MaterialID
		for _, arg := range args {
			category, code, ok := strings.Cut(arg, ":")
			if !ok {
				fmt.Fprintf(os.Stderr, "materials must be given as <category>:<code>, got %q\n", arg)
				os.Exit(1)
			}
			materials = append(materials, pricing.MaterialID{
				Category: pricing.MaterialCategory(category),
				Code:     code,
			})
		}

		var response pricing.PriceResponse
		res, err := client.R().
			SetContext(cmd.Context()).
			SetBody(pricing.PriceRequest{
				Location: pricing.Location{
					Country: queryCountry,
					Region:  queryRegion,
					City:    queryCity,
				},
				Materials: materials,
				Currency:  queryCurrency,
			}).
			SetResult(&response).
			Post("/v1/prices")
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if res.StatusCode() != 200 {
			fmt.Fprintln(os.Stderr, res.String())
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Material", "Store", "Price", "Currency", "Confidence", "Captured"})

		for _, p := range response.Prices {
			t.AppendRow(table.Row{
				fmt.Sprintf("%s/%s", p.Material.Category, p.Material.Code),
				p.Store.Name,
				p.Price.StringFixed(2),
				p.Currency,
				p.Confidence,
				p.CapturedAt.Format("2006-01-02 15:04"),
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()

		for _, warning := range response.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", warning)
		}
	},
}
