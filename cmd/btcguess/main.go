package main

import "github.com/mcoot/btcguesser/internal/cli"

func main() {
	cli.Execute()
}
