package cmd

import (
	"fmt"
	"os"

	"obracalc-backend/lib/pricing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(materialsCmd)
}

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Prints the material categories known to the service.",
	Run: func(cmd *cobra.Command, args []string) {
		var response struct {
			Categories []pricing.MaterialCategory `json:"categories"`
		}
		res, err := client.R().
			SetContext(cmd.Context()).
			SetResult(&response).
			Get("/v1/materials")
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
		t.AppendHeader(table.Row{"Category"})

		for _, category := range response.Categories {
			t.AppendRow(table.Row{category})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
