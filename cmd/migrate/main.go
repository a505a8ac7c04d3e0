package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"arena-api/config"
	"arena-api/migrations"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.ConnectDatabase()

	runner, err := migrations.NewRunner(config.DB)
	if err != nil {
		log.Fatal(err)
	}
	runner.Register(migrations.GetAuthMigrations())
	runner.Register(migrations.GetCoreMigrations())

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "migrate":
		if err := runner.Apply(); err != nil {
			log.Fatal("Migration failed:", err)
		}
	case "rollback":
		batches := 1
		if len(os.Args) > 2 {
			if n, err := strconv.Atoi(os.Args[2]); err == nil {
				batches = n
			}
		}
		if err := runner.Rollback(batches); err != nil {
			log.Fatal("Rollback failed:", err)
		}
	case "status":
		showStatus(runner)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migrate migrate            - Run pending migrations")
	fmt.Println("  go run ./cmd/migrate rollback [batches] - Rollback migration batches (default: 1)")
	fmt.Println("  go run ./cmd/migrate status             - Show migration status")
}

func showStatus(runner *migrations.Runner) {
	applied, err := runner.Status()
	if err != nil {
		log.Fatal(err)
	}

	if len(applied) == 0 {
		fmt.Println("No migrations have been run yet.")
		return
	}

	fmt.Println("Batch | Name")
	fmt.Println("------|-----")
	for _, row := range applied {
		fmt.Printf("%-5d | %s\n", row.Batch, row.Name)
	}
}
