package main

import "filetime/cmd"

func main() {
	cmd.Execute()
}
