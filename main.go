package main

import "github.com/hydrosolve/swe2d/cmd"

func main() {
	cmd.Execute()
}
