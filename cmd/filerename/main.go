package main

import "filerename/cmd/filerename/cmd"

func main() {
	cmd.Execute()
}
