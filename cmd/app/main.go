package main

import "procurechain_backend/internal/app"

func main() {
	app.Run()
}
