package main

import (
	"saucenao/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.Exit(err)
	}
}
