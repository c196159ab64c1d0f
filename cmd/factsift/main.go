package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	var root = &cobra.Command{Use: "factsift"}

	root.AddCommand(serveCMD(), verifyCMD(), analyzeCMD(), migrateCMD())
	_ = root.Execute()
}
