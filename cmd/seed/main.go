// Command seed creates the schema and a first admin user so the admin API
// has an actor to authenticate. Schema creation is idempotent; pass
// -admin-id to upsert a specific admin instead of generating a new one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"membership-entitlement/internal/config"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
	pg "membership-entitlement/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	schemaPath := flag.String("schema", "deploy/postgres/init.sql", "path to the schema SQL file")
	adminID := flag.String("admin-id", "", "user id for the seeded admin (default: generated)")
	adminName := flag.String("admin-name", "admin", "username for the seeded admin")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("create schema: %v", err)
	}
	fmt.Println("schema ready")

	users := pg.NewUserRepo(pool)
	admin, err := model.NewUserProfile(*adminID, *adminName)
	if err != nil {
		log.Fatalf("admin profile: %v", err)
	}
	admin.IsAdmin = true
	if err := users.Save(ctx, repository.NoTX, admin); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	fmt.Printf("admin user ready: id=%s username=%s\n", admin.ID, admin.Username)
}
