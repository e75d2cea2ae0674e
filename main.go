package main

import "github.com/licwatch/licwatch-cli/cmd"

func main() {
	cmd.Execute()
}
