//go:build tinygo

package main

import (
	"caekeeb/app"
	"caekeeb/hal"
	"caekeeb/internal/config"
)

func main() {
	h, err := hal.New()
	if err != nil {
		println("hal:", err.Error())
		select {}
	}
	app.Run(h, config.Default())
}
