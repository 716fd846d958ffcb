package main

import "github.com/sitelog/intake/cmd/intakectl/cli"

func main() {
	cli.Execute()
}
