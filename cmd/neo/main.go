package main

import "github.com/mvp-joe/project-neo/internal/cli"

func main() {
	cli.Execute()
}
