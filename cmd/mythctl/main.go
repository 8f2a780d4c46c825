package main

import "github.com/mcoot/mythcatalog/internal/cli"

func main() {
	cli.Execute()
}
