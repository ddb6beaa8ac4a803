package main

import "Hydrocalc/internal/cli"

func main() {
	cli.Execute()
}
