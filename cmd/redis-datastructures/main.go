package main

import (
	"os"

	"redis_walkthrough/internal/app"
	"redis_walkthrough/internal/demos"
	"redis_walkthrough/internal/walkthrough"
)

func main() {
	os.Exit(app.Main("datastructures", func(env app.Env) (walkthrough.Walkthrough, error) {
		return demos.DataStructures(env.Redis), nil
	}))
}
