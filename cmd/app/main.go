package main

import (
	"go.uber.org/fx"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
