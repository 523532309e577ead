package backend

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ledger/internal/config"
	"ledger/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	app := config.Default()
	app.DataBackend = "sqlite"
	app.SQLiteDBPath = "/tmp/x.db"
	app.AMQP.URL = "amqp://localhost/"

	got, err := FromAppConfig(app)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Type:          SQLiteBackend,
		DataDirectory: "data",
		SQLiteDBPath:  "/tmp/x.db",
		AMQPURL:       "amqp://localhost/",
		AMQPExchange:  "ledger",
		AMQPQueue:     "ledger_changes",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromAppConfig = %+v, want %+v", got, want)
	}

	app.DataBackend = "sheets"
	if _, err := FromAppConfig(app); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"json", Config{Type: JSONBackend, DataDirectory: "data"}, false},
		{"json without dir", Config{Type: JSONBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"memory", Config{Type: MemoryBackend}, false},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://x/", AMQPExchange: "e"}, true},
		{"unknown", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	configs := []Config{
		{Type: JSONBackend, DataDirectory: dir},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "ledger.db")},
		{Type: MemoryBackend},
	}
	for _, cfg := range configs {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := NewFactory(nil).CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer res.Close()
			if res.Notifier != nil {
				t.Error("notifier should be nil without AMQP URL")
			}

			store := res.Stores.ForUser("u001")
			txns := map[string]core.Transaction{
				"A": core.NewTransaction(core.Income, core.Money{Cents: 100}, "Salary", "2024-01-05", core.WithID("A")),
			}
			if err := store.Save(ctx, txns); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := res.Stores.ForUser("u001").Load(ctx)
			if err != nil || len(got) != 1 {
				t.Fatalf("Load = %v, %v", got, err)
			}
			other, err := res.Stores.ForUser("u002").Load(ctx)
			if err != nil || len(other) != 0 {
				t.Fatalf("users not isolated: %v, %v", other, err)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "transactions_u001.json")); err != nil {
		t.Errorf("json backend did not write the user file: %v", err)
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	want := []string{"json", "sqlite", "memory"}
	if got := GetBackendTypeStrings(); !reflect.DeepEqual(got, want) {
		t.Errorf("GetBackendTypeStrings() = %v, want %v", got, want)
	}
}
