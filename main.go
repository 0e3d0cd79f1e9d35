package main

import "github.com/beka-birhanu/vinom-qmaze/cmd"

func main() {
	cmd.Execute()
}
