package main

import "github.com/mpapenbr/racestrategy/cmd"

func main() {
	cmd.Execute()
}
