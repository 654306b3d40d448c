package main

import (
	"github.com/agenciau/leadrelay/app"
	"github.com/agenciau/leadrelay/internal/config"
)

func main() {
	app.New(config.Load).Start()
}
