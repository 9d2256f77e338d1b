package cmd

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var BaseUrl string

var client *resty.Client

var rootCmd = &cobra.Command{
	Use:   "pricefinder-cli",
	Short: "pricefinder-cli is a CLI interface for the ObraCalc material pricing service.",
}

func Execute() {
	client = resty.New().SetBaseURL(BaseUrl)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
