package main

import "apibaseline/internal/cli"

func main() {
	cli.Execute()
}
