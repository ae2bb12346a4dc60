package drugs

import "testing"

func fptr(v float64) *float64 { return &v }

func testCatalog() *Catalog {
	products := []Product{
		{ItemCode: 100, Name: "아목시실린캡슐 250mg", Ingredient: "아목시실린", SpecAmount: fptr(250), Form: "캡슐"},
		{ItemCode: 100, Name: "아목시실린캡슐 250mg", Ingredient: "아목시실린"}, // fila repetida sin forma
		{ItemCode: 200, Name: "아목시실린정 500mg", Ingredient: "아목시실린", SpecAmount: fptr(500), Form: "정제"},
		{ItemCode: 300, Name: "세파졸린주 1g", Ingredient: "세파졸린", SpecAmount: fptr(1000)},
		{Name: ""}, // basura del dataset
	}
	ingredients := []IngredientEntry{
		{ItemSerial: 100, EnglishName: "Amoxicillin"},
		{ItemSerial: 200, EnglishName: "Amoxicillin"},
		{ItemSerial: 999, EnglishName: "Unrelated"},
		{ItemSerial: 0, EnglishName: "dropped"},
	}
	return NewCatalog(products, ingredients)
}

func TestCatalog_Counts(t *testing.T) {
	cat := testCatalog()
	if cat.Products() != 4 {
		t.Fatalf("expected 4 products (nameless row dropped), got %d", cat.Products())
	}
	if cat.Ingredients() != 3 {
		t.Fatalf("expected 3 ingredient rows (serial 0 dropped), got %d", cat.Ingredients())
	}
}

func TestCatalog_SearchNames(t *testing.T) {
	cat := testCatalog()

	got := cat.SearchNames("아목시실린")
	if len(got) != 2 {
		t.Fatalf("expected 2 deduplicated names, got %v", got)
	}
	if got[0] != "아목시실린캡슐 250mg" || got[1] != "아목시실린정 500mg" {
		t.Fatalf("catalog order must be preserved, got %v", got)
	}

	if got := cat.SearchNames("   "); len(got) != 0 {
		t.Fatalf("blank query must return nothing, got %v", got)
	}
	if got := cat.SearchNames("존재하지않는약"); len(got) != 0 {
		t.Fatalf("no-match query must return empty, got %v", got)
	}
}

func TestCatalog_SearchNamesLimit(t *testing.T) {
	products := make([]Product, 0, 30)
	for i := 0; i < 30; i++ {
		products = append(products, Product{ItemCode: int64(i + 1), Name: "시험약 " + string(rune('가'+i))})
	}
	cat := NewCatalog(products, nil)

	if got := cat.SearchNames("시험약"); len(got) != 20 {
		t.Fatalf("autocomplete must cap at 20, got %d", len(got))
	}
}

func TestCatalog_FindByName(t *testing.T) {
	cat := testCatalog()

	p, ok := cat.FindByName("아목시실린정 500mg")
	if !ok || p.ItemCode != 200 {
		t.Fatalf("expected item code 200, got %v %v", p.ItemCode, ok)
	}
	if _, ok := cat.FindByName("없는약"); ok {
		t.Fatalf("unknown name must not resolve")
	}
}

func TestCatalog_EnglishIngredient(t *testing.T) {
	cat := testCatalog()

	if got := cat.EnglishIngredient("아목시실린캡슐 250mg"); got != "Amoxicillin" {
		t.Fatalf("expected Amoxicillin, got %q", got)
	}
	// Producto sin fila regulatoria y nombre desconocido: ambos "-".
	if got := cat.EnglishIngredient("세파졸린주 1g"); got != "-" {
		t.Fatalf("expected '-' for unmatched item code, got %q", got)
	}
	if got := cat.EnglishIngredient("없는약"); got != "-" {
		t.Fatalf("expected '-' for unknown product, got %q", got)
	}
}

func TestCatalog_FormPrefersFirstNonEmpty(t *testing.T) {
	cat := testCatalog()

	if got := cat.Form("아목시실린캡슐 250mg"); got != "캡슐" {
		t.Fatalf("expected 캡슐, got %q", got)
	}
	if got := cat.Form("세파졸린주 1g"); got != "-" {
		t.Fatalf("expected '-' when no row carries a form, got %q", got)
	}
}

func TestCatalog_RealAmount(t *testing.T) {
	cat := testCatalog()

	v, ok := cat.RealAmount("아목시실린정 500mg", 2)
	if !ok || v != 1000 {
		t.Fatalf("expected 500*2=1000, got %v ok=%v", v, ok)
	}

	noSpec := NewCatalog([]Product{{ItemCode: 1, Name: "시럽"}}, nil)
	if _, ok := noSpec.RealAmount("시럽", 2); ok {
		t.Fatalf("product without spec amount must not compute a real amount")
	}
}

func TestCatalog_DetailsByName(t *testing.T) {
	cat := testCatalog()

	d, ok := cat.DetailsByName("아목시실린캡슐 250mg")
	if !ok {
		t.Fatalf("expected details")
	}
	if d.EnglishIngredient != "Amoxicillin" || d.ResolvedForm != "캡슐" {
		t.Fatalf("unexpected details: %+v", d)
	}
}
