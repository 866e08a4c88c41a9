//go:build ignore

// Standalone migration runner. Applies migrate.sql statement by statement.
//
//	go run migrate.go
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		envOr("DB_USER", "restaurant"),
		envOr("DB_PASSWORD", "restaurant"),
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "3306"),
		envOr("DB_NAME", "restaurant"),
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintln(os.Stderr, "ping:", err)
		os.Exit(1)
	}

	schema, err := os.ReadFile("migrate.sql")
	if err != nil {
		fmt.Fprintln(os.Stderr, "read migrate.sql:", err)
		os.Exit(1)
	}

	var lines []string
	for _, line := range strings.Split(string(schema), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	applied := 0
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			fmt.Fprintln(os.Stderr, "exec:", err)
			os.Exit(1)
		}
		applied++
	}

	fmt.Printf("migration complete: %d statements applied\n", applied)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
