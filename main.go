package main

import "github.com/iksnae/sbh/cmd"

func main() {
	cmd.Execute()
}
