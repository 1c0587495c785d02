package main

import (
	"os"

	"redis_walkthrough/internal/app"
	"redis_walkthrough/internal/demos"
	"redis_walkthrough/internal/walkthrough"
)

func main() {
	os.Exit(app.Main("json", func(env app.Env) (walkthrough.Walkthrough, error) {
		return demos.JSON(env.Redis)
	}))
}
