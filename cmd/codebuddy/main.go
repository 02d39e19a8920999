package main

import "github.com/mvp-joe/codebuddy/internal/cli"

func main() {
	cli.Execute()
}
