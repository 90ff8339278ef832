package main

import "github.com/meshkit-io/meshkit/cmd"

func main() {
	cmd.Execute()
}
