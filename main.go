package main

import "github.com/pders01/packpick/cmd"

func main() {
	cmd.Execute()
}
