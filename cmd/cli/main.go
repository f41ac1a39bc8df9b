package main

import "github.com/Priyanshusingh0818/GORUS/cmd/cli/commands"

func main() {
	commands.Execute()
}
