// Command roster-import loads an employee roster CSV from disk, for
// bulk onboarding without going through the HTTP API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"evaluation-management-api/config"
	"evaluation-management-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var path string
	flag.StringVar(&path, "file", "", "path to the roster CSV")
	flag.Parse()

	if path == "" {
		log.Fatal("usage: roster-import -file <roster.csv>")
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Could not open %s: %v", path, err)
	}
	defer file.Close()

	config.InitDB()

	result, svcErr := services.NewRosterService(config.DB).Import(file)
	if svcErr != nil {
		log.Fatalf("Import failed: %v", svcErr)
	}

	fmt.Printf("Imported %d employees\n", result.Imported)
	for _, rowErr := range result.Errors {
		fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
	}

	if len(result.Errors) > 0 {
		os.Exit(2)
	}
}
