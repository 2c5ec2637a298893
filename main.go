package main

import "github.com/inovacc/pullr/cmd"

func main() {
	cmd.Execute()
}
