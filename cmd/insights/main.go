package main

import "github.com/halilanisa/ecommerce-insights/pkg/cli"

func main() {
	cli.Execute()
}
