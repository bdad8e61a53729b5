package main

import "github.com/sadopc/carelog/internal/cli"

func main() {
	cli.Execute()
}
