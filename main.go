package main

import "github.com/UnwiseGiraffeX86/Air-Tunnel/cmd"

func main() {
	cmd.Execute()
}
