package main

import (
	"github.com/premeet/premeet/services/briefing-service/internal/app"
)

func main() {
	app.Execute()
}
