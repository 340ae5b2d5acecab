// Package main is the entry point for the lookml-generator application
package main

import (
	"github.com/hwine/lookml-generator/cmd"
)

func main() {
	cmd.Execute()
}
