package config

import (
	"strings"
	"testing"

	"myanmar-travel/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("expected sqlite driver by default, got %q", cfg.DBDriver)
	}
	if cfg.USDToMMKRate != 2100 {
		t.Fatalf("expected default rate 2100, got %v", cfg.USDToMMKRate)
	}
	if cfg.CacheTTLMinutes != 30 {
		t.Fatalf("expected default cache ttl")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("USD_TO_MMK_RATE", "3500")
	t.Setenv("DB_TRACING", "true")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("expected override port")
	}
	if cfg.DBDriver != "mysql" {
		t.Fatalf("expected lower-cased driver, got %q", cfg.DBDriver)
	}
	if cfg.USDToMMKRate != 3500 {
		t.Fatalf("expected override rate, got %v", cfg.USDToMMKRate)
	}
	if !cfg.DBTracing {
		t.Fatalf("expected tracing enabled")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
}

func TestOrigins(t *testing.T) {
	if got := (Config{}).Origins(); len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected wildcard, got %v", got)
	}
	got := Config{CORSOrigins: " http://a.test , ,http://b.test"}.Origins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", got)
	}
}

func TestMySQLDSNFromURL(t *testing.T) {
	dsn, err := mysqlDSNFromURL("mysql://user:pw@db.internal/travel")
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	if !strings.HasPrefix(dsn, "user:pw@tcp(db.internal:3306)/travel?") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=True") || !strings.Contains(dsn, "charset=utf8mb4") {
		t.Fatalf("expected default params in %q", dsn)
	}

	if _, err := mysqlDSNFromURL("mysql://user:pw@db.internal/"); err == nil {
		t.Fatalf("expected error for missing database name")
	}
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "sqlite", "mysql", "postgres"} {
		d, err := Dialector(Config{DBDriver: driver, DBHost: "localhost", DBUser: "root", DBName: "travel"})
		if err != nil || d == nil {
			t.Fatalf("driver %q: %v", driver, err)
		}
	}
	if _, err := Dialector(Config{DBDriver: "oracle"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestResolvePostgresDSN(t *testing.T) {
	dsn := resolvePostgresDSN(Config{DBHost: "pg", DBUser: "root", DBName: "travel"})
	if !strings.Contains(dsn, "user=postgres") || !strings.Contains(dsn, "port=5432") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	if got := resolvePostgresDSN(Config{DatabaseURL: "postgres://x"}); got != "postgres://x" {
		t.Fatalf("expected DATABASE_URL passthrough")
	}
}

func TestSeedDatabaseIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:seedtest?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	SeedDatabase(db, SeedOptions{})
	SeedDatabase(db, SeedOptions{})

	var admins int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
	if admins != 1 {
		t.Fatalf("expected one admin, got %d", admins)
	}
	var settings int64
	db.Model(&models.SiteSetting{}).Count(&settings)
	if settings != 1 {
		t.Fatalf("expected one settings row, got %d", settings)
	}
}

func TestSeedDatabaseAdminPassword(t *testing.T) {
	open := func(name string) *gorm.DB {
		db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := Migrate(db); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		return db
	}

	release := open("seedrelease")
	SeedDatabase(release, SeedOptions{Release: true})
	var admins int64
	release.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
	if admins != 0 {
		t.Fatalf("release mode without ADMIN_PASSWORD must not seed an admin, got %d", admins)
	}

	custom := open("seedcustom")
	SeedDatabase(custom, SeedOptions{AdminPassword: "mingalaba-2026", Release: true})
	var admin models.User
	if err := custom.Where("username = ?", DefaultAdminUsername).First(&admin).Error; err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("mingalaba-2026")) != nil {
		t.Fatalf("admin should use ADMIN_PASSWORD")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(defaultAdminPassword)) == nil {
		t.Fatalf("default password must not be accepted")
	}
}

func TestConnectRedisNilWithoutAddr(t *testing.T) {
	if ConnectRedis(Config{}) != nil {
		t.Fatalf("expected nil client")
	}
	if ConnectRedis(Config{RedisAddr: "localhost:6379"}) == nil {
		t.Fatalf("expected client")
	}
}
