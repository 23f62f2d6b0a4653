// Command migrate applies the SQL files under migrations/ to the snapshot
// database. Only needed when SNAPSHOT_BACKEND=postgres.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cyberpit/site/internal/config"
	"github.com/cyberpit/site/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up (default)  未適用のマイグレーションを順番に適用
  status        適用済み / 未適用のマイグレーションを表示
  down          最後に適用したマイグレーションを 1 件戻す`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")
	logging.Setup()

	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	r := &runner{pool: pool, dir: migrationDir()}
	switch cmd {
	case "up":
		err = r.up(ctx)
	case "status":
		err = r.status(ctx)
	case "down":
		err = r.down(ctx)
	default:
		usage()
	}
	if err != nil {
		logging.Fatal("migrate failed", "command", cmd, "error", err)
	}
}

func migrationDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		return "../migrations"
	}
	return "migrations"
}
