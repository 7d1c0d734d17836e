package main

import "ideagraph/cmd/ideagraph-cli/cmd"

func main() {
	cmd.Execute()
}
