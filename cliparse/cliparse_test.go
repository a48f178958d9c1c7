package cliparse

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "BASE_URL"} {
		t.Setenv(key, "")
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "applyo.db" {
		t.Errorf("Expected default sqlite file, got %s", cfg.DatabaseURL)
	}
	if cfg.BaseURL == "" {
		t.Error("Expected a default base URL")
	}
}

func TestParseFlagsExplicit(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-p", "8080",
		"-t", "postgres",
		"-d", "postgres://localhost/applyo",
		"-b", "https://applyo.example",
	})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("Expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.BaseURL != "https://applyo.example" {
		t.Errorf("Unexpected base URL %s", cfg.BaseURL)
	}
}

func TestParseFlagsPostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	if _, err := ParseFlags([]string{"-t", "postgres"}); err == nil {
		t.Error("Expected error when postgres selected without a URL")
	}
}

func TestParseFlagsRejectsUnknownDatabaseType(t *testing.T) {
	if _, err := ParseFlags([]string{"-t", "oracle"}); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}
