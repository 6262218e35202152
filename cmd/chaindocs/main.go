package main

import "github.com/diogo/chaindocs/internal/commands"

func main() {
	commands.Execute()
}
