package main

import "github.com/aalvaropc/testdeck/internal/cli"

func main() {
	cli.Execute()
}
