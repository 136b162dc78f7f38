package main

import "github.com/mcoot/scoretracker/internal/cli"

func main() {
	cli.Execute()
}
