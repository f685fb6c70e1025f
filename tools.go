//go:build tools

package main

// Pins CLI tools used during development so `go mod tidy` keeps them.
import (
	_ "github.com/swaggo/swag/cmd/swag"
)
