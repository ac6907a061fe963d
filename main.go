package main

import "github.com/tantalor93/dohrank/cmd"

func main() {
	cmd.Execute()
}
