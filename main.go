package main

import "privateai/internal/commands"

func main() {
	commands.Execute()
}
