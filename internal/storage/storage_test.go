package storage

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nao1215/terrareport/internal/config"
)

// azuriteConnection is the well-known local emulator connection string.
const azuriteConnection = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestNew(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("connection string", func(t *testing.T) {
		t.Parallel()

		p, err := New(config.PublishConfig{Container: "reports", Prefix: "/ndvi/", ConnectionString: azuriteConnection}, logger)
		if err != nil {
			t.Fatal(err)
		}
		az, ok := p.(*azure)
		if !ok {
			t.Fatalf("unexpected publisher type %T", p)
		}
		if az.container != "reports" || az.prefix != "ndvi" {
			t.Errorf("azure = %+v", az)
		}
	})

	t.Run("no container", func(t *testing.T) {
		t.Parallel()

		if _, err := New(config.PublishConfig{ConnectionString: azuriteConnection}, logger); !errors.Is(err, config.ErrNoContainer) {
			t.Errorf("expected ErrNoContainer, got %v", err)
		}
	})

	t.Run("no account", func(t *testing.T) {
		t.Parallel()

		if _, err := New(config.PublishConfig{Container: "reports"}, logger); !errors.Is(err, config.ErrNoStorageAccount) {
			t.Errorf("expected ErrNoStorageAccount, got %v", err)
		}
	})

	t.Run("malformed connection string", func(t *testing.T) {
		t.Parallel()

		if _, err := New(config.PublishConfig{Container: "reports", ConnectionString: "garbage"}, logger); err == nil {
			t.Error("expected error")
		}
	})
}

func TestUploadRejectsBadKeys(t *testing.T) {
	t.Parallel()

	p, err := New(config.PublishConfig{Container: "reports", ConnectionString: azuriteConnection}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Upload(t.Context(), "", strings.NewReader("x"), ContentTypePDF); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Upload(t.Context(), "../escape.pdf", strings.NewReader("x"), ContentTypePDF); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"", "ndvi.pdf", "ndvi.pdf"},
		{"reports", "ndvi.pdf", "reports/ndvi.pdf"},
		{"/reports/2024/", "ndvi.pdf", "reports/2024/ndvi.pdf"},
	}
	for _, tt := range tests {
		if got := Key(tt.prefix, tt.name); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"report.pdf": ContentTypePDF,
		"REPORT.PDF": ContentTypePDF,
		"summary.md": ContentTypeMarkdown,
		"stats.csv":  ContentTypeCSV,
		"image.png":  "application/octet-stream",
	}
	for name, want := range tests {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
}
