package main

import "matscope/internal/cli"

func main() {
	cli.Execute()
}
