package main

import (
	"fmt"
	"os"

	"obracalc-backend/cmd/pricefinder-cli/cmd"
)

func main() {
	baseUrl, ok := os.LookupEnv("PRICEFINDER_BASE_URL")
	if !ok {
		fmt.Println("You should specify the base url of the pricefinder service in the environment variable PRICEFINDER_BASE_URL.")
		os.Exit(1)
	}
	cmd.BaseUrl = baseUrl

	cmd.Execute()
}
