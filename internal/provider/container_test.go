package provider

import (
	"testing"
	"time"

	"github.com/freshcart-admin/internal/cache"
	"github.com/freshcart-admin/internal/config"
	"github.com/freshcart-admin/internal/matching"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestMatchConfigKeepsDefaultsForZeroValues(t *testing.T) {
	got := MatchConfig(config.MatchConfig{OverlapRatio: 0.75, MaxSuggestions: 5})
	want := matching.DefaultConfig()
	want.OverlapRatio = 0.75
	want.MaxSuggestions = 5
	if got != want {
		t.Fatalf("unexpected match config: %+v", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	wizard := WizardOptions(config.WizardConfig{DraftTTLMinutes: 90, LockTTLSeconds: 15, SearchLimit: 30})
	if wizard.DraftTTL != 90*time.Minute || wizard.LockTTL != 15*time.Second || wizard.SearchLimit != 30 {
		t.Fatalf("unexpected wizard options: %+v", wizard)
	}
	imports := ImportOptions(config.ImportConfig{PreviewTTLMinutes: 30, MaxRows: 10, Concurrency: 2, LockTTLSeconds: 900, Match: config.MatchConfig{Locale: "ar"}})
	if imports.PreviewTTL != 30*time.Minute || imports.LockTTL != 15*time.Minute || imports.MaxRows != 10 || imports.Concurrency != 2 || imports.Locale != "ar" {
		t.Fatalf("unexpected import options: %+v", imports)
	}
}

func TestNewContainerWithoutRedisUsesMemoryStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	c := NewContainer(&config.Config{}, db)
	if _, ok := c.Store.(*cache.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", c.Store)
	}
	if c.QueueClient != nil {
		t.Fatalf("queue client should stay nil when disabled")
	}
	if c.PromotionWizardService == nil || c.PromotionImportService == nil || c.Matcher == nil {
		t.Fatalf("expected services wired")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}
