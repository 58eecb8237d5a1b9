package main

import "github.com/facedeck/facedeck/cmd"

func main() {
	cmd.Execute()
}
