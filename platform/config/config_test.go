package config

import "testing"

func TestLoadAppliesImportDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/homefinder")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
	t.Setenv("SMTP_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetImportBatchSize() != 500 {
		t.Fatalf("expected default batch size 500, got %d", cfg.GetImportBatchSize())
	}
	if cfg.GetImportProgressEvery() != 50 {
		t.Fatalf("expected default progress interval 50, got %d", cfg.GetImportProgressEvery())
	}
	if cfg.GetEmailEnabled() {
		t.Fatal("expected email to be disabled without an SMTP host")
	}
}

func TestLoadRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadRejectsNonPositiveBatchSize(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/homefinder")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
	t.Setenv("IMPORT_BATCH_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a@example.com, ,b@example.com ")
	if len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Fatalf("unexpected split result: %#v", got)
	}
}
