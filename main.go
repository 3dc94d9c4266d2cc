package main

import "github.com/selimozcann/linktracer/cmd"

func main() {
	cmd.Execute()
}
