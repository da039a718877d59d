package main

import "github.com/zinc-sig/nbcheck/cmd"

func main() {
	cmd.Execute()
}
