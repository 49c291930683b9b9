package main

import "almanac/internal/cli"

func main() {
	cli.Execute()
}
