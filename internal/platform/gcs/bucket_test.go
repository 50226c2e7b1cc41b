package gcs

import (
	"strings"
	"testing"
)

func TestResolvePublicBaseURLGCSDefault(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")

	baseURL, source, err := resolvePublicBaseURL(StorageConfig{Mode: StorageModeGCS})
	if err != nil {
		t.Fatalf("resolvePublicBaseURL: %v", err)
	}
	if baseURL != "" {
		t.Fatalf("baseURL: want empty got=%q", baseURL)
	}
	if source != "gcs_default" {
		t.Fatalf("source: want=%q got=%q", "gcs_default", source)
	}
}

func TestResolvePublicBaseURLEmulatorFallback(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")

	baseURL, source, err := resolvePublicBaseURL(StorageConfig{
		Mode:         StorageModeEmulator,
		EmulatorHost: "http://fake-gcs:4443",
	})
	if err != nil {
		t.Fatalf("resolvePublicBaseURL: %v", err)
	}
	if baseURL != "http://fake-gcs:4443" {
		t.Fatalf("baseURL: want=%q got=%q", "http://fake-gcs:4443", baseURL)
	}
	if source != "storage_emulator_host" {
		t.Fatalf("source: want=%q got=%q", "storage_emulator_host", source)
	}
}

func TestResolvePublicBaseURLEnvOverride(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "http://localhost:4443/")

	baseURL, source, err := resolvePublicBaseURL(StorageConfig{
		Mode:         StorageModeEmulator,
		EmulatorHost: "http://fake-gcs:4443",
	})
	if err != nil {
		t.Fatalf("resolvePublicBaseURL: %v", err)
	}
	if baseURL != "http://localhost:4443" {
		t.Fatalf("baseURL: want=%q got=%q", "http://localhost:4443", baseURL)
	}
	if source != "object_storage_public_base_url" {
		t.Fatalf("source: want=%q got=%q", "object_storage_public_base_url", source)
	}
}

func TestResolvePublicBaseURLInvalidEnv(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "localhost:4443")

	_, _, err := resolvePublicBaseURL(StorageConfig{
		Mode:         StorageModeEmulator,
		EmulatorHost: "http://fake-gcs:4443",
	})
	if err == nil {
		t.Fatalf("resolvePublicBaseURL: expected error, got nil")
	}
}

func TestGetPublicURLGCSDefault(t *testing.T) {
	bs := &bucketService{bucketName: "report-bucket"}

	got := bs.GetPublicURL("reports/a1/chart.png")
	want := "https://storage.googleapis.com/report-bucket/reports/a1/chart.png"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesCDNDomain(t *testing.T) {
	bs := &bucketService{
		bucketName: "report-bucket",
		cdnDomain:  "cdn.example.com",
	}

	got := bs.GetPublicURL("reports/a1/summary.json")
	want := "https://cdn.example.com/reports/a1/summary.json"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesPublicBaseURL(t *testing.T) {
	bs := &bucketService{
		publicBaseURL: "http://localhost:4443",
		bucketName:    "report-bucket",
	}

	got := bs.GetPublicURL("/reports/a1/chart.png")
	want := "http://localhost:4443/report-bucket/reports/a1/chart.png"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesEmulatorMediaEndpoint(t *testing.T) {
	bs := &bucketService{
		storageMode:   StorageModeEmulator,
		publicBaseURL: "http://localhost:4443",
		bucketName:    "report-bucket",
	}

	got := bs.GetPublicURL("reports/a1/chart.png")
	want := "http://localhost:4443/storage/v1/b/report-bucket/o/reports%2Fa1%2Fchart.png?alt=media"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesEmulatorHostWhenPublicBaseMissing(t *testing.T) {
	bs := &bucketService{
		storageMode:  StorageModeEmulator,
		emulatorHost: "http://fake-gcs:4443",
		bucketName:   "report-bucket",
	}

	got := bs.GetPublicURL("/reports/a1/chart.png")
	want := "http://fake-gcs:4443/storage/v1/b/report-bucket/o/reports%2Fa1%2Fchart.png?alt=media"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestEmulatorPublicURLEscapesArtifactKeys(t *testing.T) {
	bs := &bucketService{
		storageMode:   StorageModeEmulator,
		publicBaseURL: "http://localhost:4443",
		bucketName:    "report-bucket",
	}

	cases := []struct {
		name   string
		key    string
		wantCT string
	}{
		{name: "chart png", key: "reports/a1/chart.png", wantCT: "image/png"},
		{name: "summary json", key: "reports/a1/summary.json", wantCT: "application/json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			publicURL := bs.GetPublicURL(tc.key)
			if !strings.HasPrefix(publicURL, "http://localhost:4443/storage/v1/b/report-bucket/o/") {
				t.Fatalf("publicURL prefix mismatch: %s", publicURL)
			}
			if !strings.Contains(publicURL, "alt=media") {
				t.Fatalf("publicURL should include alt=media: %s", publicURL)
			}
			if !strings.Contains(publicURL, strings.ReplaceAll(tc.key, "/", "%2F")) {
				t.Fatalf("publicURL should escape object key path: %s", publicURL)
			}
			if got := contentTypeForKey(tc.key); got != tc.wantCT {
				t.Fatalf("contentTypeForKey(%q): want=%q got=%q", tc.key, tc.wantCT, got)
			}
		})
	}
}
