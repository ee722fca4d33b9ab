package main

import (
	"modlist-manager/cmd"
	"modlist-manager/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	logger.InitLogger(logger.DefaultLogFile)
	defer logger.Sync()
	cmd.Execute()
}
