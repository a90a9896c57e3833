package main

import "library-rental/cmd"

func main() {
	cmd.Execute()
}
