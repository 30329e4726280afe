package main

import "github.com/ewilliams-labs/musicdna/internal/cli"

func main() {
	cli.Execute()
}
