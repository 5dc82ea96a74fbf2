package main

import "github.com/fakeyudi/recast/cmd"

func main() {
	cmd.Execute()
}
