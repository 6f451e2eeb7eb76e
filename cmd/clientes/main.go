package main

import "github.com/nicolas44373/clientes/internal/cli"

func main() {
	cli.Execute()
}
