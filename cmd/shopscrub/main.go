package main

import (
	"shopscrub/cmd/cmd"
	"shopscrub/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
