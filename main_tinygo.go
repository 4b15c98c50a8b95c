//go:build tinygo

package main

import (
	"beacon/app"
	"beacon/hal"
)

func main() {
	app.Run(hal.New())
}
