//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/sh"
)

// Default target builds the clientes binary
func Default() error {
	return Build()
}

// Build compiles the clientes binary
func Build() error {
	fmt.Println("Building clientes...")
	return sh.Run("go", "build", "-o", "clientes", "./cmd/clientes")
}

// Serve starts the JSON API with the configured store
func Serve() error {
	fmt.Println("Serving clientes...")
	return sh.RunV("go", "run", "./cmd/clientes", "serve")
}

// Test runs all tests
func Test() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over every package
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs clientes to $GOPATH/bin
func Install() error {
	fmt.Println("Installing clientes...")
	return sh.Run("go", "install", "./cmd/clientes")
}

// Clean removes the built binary and the default SQLite database
func Clean() error {
	fmt.Println("Cleaning...")
	for _, f := range []string{"clientes", "clientes.db"} {
		if err := sh.Rm(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
