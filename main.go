package main

import "glue-localizer/internal/cli"

func main() {
	cli.Execute()
}
