package main

import (
	"mindscribe/cmd/handlers"
	"mindscribe/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
