package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_DIR", "/tmp/scs")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("DUP_RADIUS_METERS", "")

	cfg := Load()
	if cfg.Port != ":8000" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.DatabaseURL != "/tmp/scs/complaints.db" {
		t.Fatalf("unexpected db url %q", cfg.DatabaseURL)
	}
	if cfg.ImagesDir != "/tmp/scs/images" {
		t.Fatalf("unexpected images dir %q", cfg.ImagesDir)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.DupRadiusMeters != 250 || cfg.DupScanLimit != 200 {
		t.Fatalf("unexpected duplicate settings %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.kz, ,https://b.kz")
	t.Setenv("DUP_RADIUS_METERS", "100.5")
	t.Setenv("DUP_SCAN_LIMIT", "oops")

	cfg := Load()
	if cfg.Port != ":9090" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.kz" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.DupRadiusMeters != 100.5 {
		t.Fatalf("unexpected radius %f", cfg.DupRadiusMeters)
	}
	if cfg.DupScanLimit != 200 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.DupScanLimit)
	}
}
