package main

import "github.com/mj1618/novawin-cli/cmd"

func main() {
	cmd.Execute()
}
