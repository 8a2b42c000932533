package main

import "github.com/recovibe/pupcal/internal/cli"

func main() {
	cli.Execute()
}
