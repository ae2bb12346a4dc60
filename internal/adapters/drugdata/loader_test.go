package drugdata

import (
	"path/filepath"
	"testing"

	"renal-prescription-audit/internal/domain/drugs"
	"renal-prescription-audit/internal/platform/logger"
)

func testLogger() logger.Logger {
	return logger.New(logger.Options{Level: logger.Error})
}

func TestLoadCatalog(t *testing.T) {
	products := LoadCatalog(filepath.Join("testdata", "catalog.json"), testLogger())
	if len(products) != 3 {
		t.Fatalf("expected 3 raw products, got %d", len(products))
	}

	// Códigos como texto y como número parsean igual.
	if products[0].ItemCode != 198801234 || products[1].ItemCode != 200501111 {
		t.Fatalf("item codes mixed-type parse failed: %d %d", products[0].ItemCode, products[1].ItemCode)
	}
	if products[0].SpecAmount == nil || *products[0].SpecAmount != 250 {
		t.Fatalf("string spec amount must parse, got %v", products[0].SpecAmount)
	}
	if products[1].SpecAmount == nil || *products[1].SpecAmount != 1000 {
		t.Fatalf("numeric spec amount must parse, got %v", products[1].SpecAmount)
	}

	// Valores no parseables degradan a ausente, no rompen la carga.
	if products[2].ItemCode != 0 || products[2].SpecAmount != nil {
		t.Fatalf("unparseable row must degrade: code=%d spec=%v", products[2].ItemCode, products[2].SpecAmount)
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if got := LoadCatalog(filepath.Join("testdata", "nope.json"), testLogger()); len(got) != 0 {
		t.Fatalf("missing file must yield empty catalog, got %d", len(got))
	}
}

func TestLoadIngredients(t *testing.T) {
	entries := LoadIngredients(filepath.Join("testdata", "ingredients.json"), testLogger())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ItemSerial != 198801234 || entries[0].EnglishName != "Amoxicillin" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
}

func TestLoadedDatasetsFeedTheCatalog(t *testing.T) {
	cat := drugs.NewCatalog(
		LoadCatalog(filepath.Join("testdata", "catalog.json"), testLogger()),
		LoadIngredients(filepath.Join("testdata", "ingredients.json"), testLogger()),
	)

	if got := cat.EnglishIngredient("세파졸린주 1g"); got != "Cefazolin" {
		t.Fatalf("expected Cefazolin via item code join, got %q", got)
	}
	if v, ok := cat.RealAmount("아목시실린캡슐 250mg", 2); !ok || v != 500 {
		t.Fatalf("expected 250*2=500, got %v ok=%v", v, ok)
	}
}
