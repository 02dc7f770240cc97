package main

import "github.com/punchcard/worklog/cmd"

func main() {
	cmd.Execute()
}
