package main

import "emobot/internal/app"

func main() {
	app.Main()
}
