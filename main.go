package main

import "feature-merge/cmd"

func main() {
	cmd.Execute()
}
