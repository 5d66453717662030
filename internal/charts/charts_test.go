package charts

import (
	"bytes"
	"testing"

	"borsa/internal/core"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleReport() core.MonthReport {
	return core.MonthReport{
		Year:    2025,
		Month:   8,
		Debits:  core.Money{Cents: 35000},
		Credits: core.Money{Cents: 150000},
		ByCategory: []core.CategoryAmount{
			{Name: "Food", Amount: core.Money{Cents: 15000}},
			{Name: "Home", Amount: core.Money{Cents: 20000}},
		},
	}
}

func TestCategoryPieProducesPNG(t *testing.T) {
	png, err := NewRenderer().CategoryPie(sampleReport())
	if err != nil {
		t.Fatalf("CategoryPie: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestCategoryPieEmptyReport(t *testing.T) {
	png, err := NewRenderer().CategoryPie(core.MonthReport{Year: 2025, Month: 8})
	if err != nil {
		t.Fatalf("CategoryPie: %v", err)
	}
	if png != nil {
		t.Fatal("expected nil output for empty report")
	}
}

func TestDebitCreditBarsProducesPNG(t *testing.T) {
	png, err := NewRenderer().DebitCreditBars(sampleReport())
	if err != nil {
		t.Fatalf("DebitCreditBars: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestDebitCreditBarsEmptyReport(t *testing.T) {
	png, err := NewRenderer().DebitCreditBars(core.MonthReport{Year: 2025, Month: 8})
	if err != nil {
		t.Fatalf("DebitCreditBars: %v", err)
	}
	if png != nil {
		t.Fatal("expected nil output for empty report")
	}
}
