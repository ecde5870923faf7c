package main

import "github.com/fixrec/fixrec/cmd/fixrec/cmd"

func main() {
	cmd.Execute()
}
