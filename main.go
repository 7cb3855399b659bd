package main

import "github.com/nhatminh-dev/drinkstore/cmd"

func main() {
	cmd.Execute()
}
