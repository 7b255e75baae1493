package main

import "github.com/drevan/d3utils/cmd/hogutils/cmd"

func main() {
	cmd.Execute()
}
