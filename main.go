package main

import "github.com/shaharia-lab/renewd/cmd"

func main() {
	cmd.Execute()
}
