package report

import (
	"errors"
	"testing"
)

func TestFindHeaderRowSkipsPreamble(t *testing.T) {
	rows := [][]string{
		{"Relatório de vendas"},
		{"Período: 01/01/2024 a 30/04/2024"},
		{},
		{"Data da venda", "Unidades", "# de anúncio"},
		{"05/03/2024", "1", "MLB1"},
	}
	if got := findHeaderRow(rows, mlHeaderAnchors); got != 3 {
		t.Fatalf("header row = %d, want 3", got)
	}
}

func TestFindHeaderRowDefaultsToFirst(t *testing.T) {
	rows := [][]string{
		{"col_a", "col_b"},
		{"1", "2"},
	}
	if got := findHeaderRow(rows, mlHeaderAnchors); got != 0 {
		t.Fatalf("header row = %d, want 0", got)
	}
}

func TestResolveColumnStrategies(t *testing.T) {
	cols := []string{"SKU", "Receita por produtos (BRL).1", "título do anúncio"}

	if idx, ok := resolveColumn(cols, "SKU"); !ok || idx != 0 {
		t.Fatalf("exact match failed: %d %v", idx, ok)
	}
	if idx, ok := resolveColumn(cols, "Receita por produtos (BRL)"); !ok || idx != 1 {
		t.Fatalf("prefix match failed: %d %v", idx, ok)
	}
	if idx, ok := resolveColumn(cols, "Título do anúncio"); !ok || idx != 2 {
		t.Fatalf("case-insensitive match failed: %d %v", idx, ok)
	}
	if _, ok := resolveColumn(cols, "Unidades"); ok {
		t.Fatal("resolved a column that does not exist")
	}
}

func TestRequireColumnError(t *testing.T) {
	_, err := requireColumn([]string{"a", "b"}, "units", "Unidades")
	if err == nil {
		t.Fatal("expected error")
	}
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("error type = %T", err)
	}
	if missing.Column != "units" {
		t.Fatalf("column in error = %q, want canonical name", missing.Column)
	}
}

func TestBlankIdentifier(t *testing.T) {
	for _, s := range []string{"", "  ", "NaN", "None", "null"} {
		if !blankIdentifier(s) {
			t.Fatalf("%q should be blank", s)
		}
	}
	if blankIdentifier("MLB123") {
		t.Fatal("real id flagged blank")
	}
}
