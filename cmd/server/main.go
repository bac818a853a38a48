package main

import (
	"github.com/spf13/cobra"
)

const releaseVersion = "1.0.0"

// @title           EduGame Lobby API
// @version         1.0
// @description     Lobby coordination, ready protocol and leaderboards for classroom mini-games.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cobra.CheckErr(newRootCmd().Execute())
}
