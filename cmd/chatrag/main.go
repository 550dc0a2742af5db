// Package main is the entry point for the chatrag service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/rigel-labs/chatrag/cmd/chatrag/app"
)

func main() {
	app.NewApp().Run()
}
