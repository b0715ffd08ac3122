package main

import "github.com/i474232898/weather-team/internal/cli"

func main() {
	cli.Execute()
}
