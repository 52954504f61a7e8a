package main

import "github.com/ankurk/repolens/cmd"

func main() {
	cmd.Execute()
}
