package main

import (
	"log"

	"wiz-graphql-proxy/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
