package main

import (
	"os"

	"github.com/staffpanel/staffpanel/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
