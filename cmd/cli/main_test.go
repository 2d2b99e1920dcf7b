package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestCSVToRecords(t *testing.T) {
	rows := [][]string{
		{"Número Licitación", "Nombre", "Presupuesto Total"},
		{"123-1-LE24", "Obras menores", "1000000"},
		{"456-2-LP24", "Consultoría"},
	}

	records := csvToRecords(rows)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0]["Número Licitación"] != "123-1-LE24" {
		t.Fatalf("unexpected first record: %v", records[0])
	}

	if _, ok := records[1]["Presupuesto Total"]; ok {
		t.Fatalf("short row should not carry trailing columns: %v", records[1])
	}
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/stats" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_tenders":3}`))
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	out := captureOutput(t, func() {
		getJSON("/api/v1/stats")
	})

	if !strings.Contains(out, `"total_tenders": 3`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
