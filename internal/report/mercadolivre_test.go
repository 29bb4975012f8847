package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// workbook builds a single-sheet xlsx from rows of cell values.
func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func mlWorkbook(t *testing.T) []byte {
	t.Helper()
	return workbook(t, [][]any{
		{"Relatório de vendas"},
		{"Período: 11/02/2024 a 10/06/2024"},
		{},
		{"Data da venda", "Unidades", "Receita por produtos (BRL)", "SKU", "# de anúncio", "Título do anúncio", "Forma de entrega", "Venda por publicidade"},
		{"10/06/2024", "2", "200,00", "SKU-1", "MLB1", "Capa de celular", "Mercado Envios Full", "Sim"},
		{"01/06/2024", "1", "100,00", "SKU-1", "MLB1", "Capa de celular", "Correios", "Não"},
		{"01/05/2024", "3", "310,50", "SKU-1", "MLB1", "Capa de celular", "Mercado Envios Flex", ""},
		{"05/06/2024", "1", "89,90", "SKU-2", "", "Fone bluetooth", "Full", "Não"},
		{"05/06/2024", "1", "50,00", "", "", "Sem identidade", "Full", ""},
		{"data inválida", "1", "10,00", "SKU-3", "MLB3", "Linha quebrada", "Full", ""},
	})
}

func TestParseMercadoLivre(t *testing.T) {
	table, err := ParseMercadoLivre(mlWorkbook(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if table.Channel != ChannelMercadoLivre {
		t.Fatalf("channel = %q", table.Channel)
	}
	want := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	if !table.ReferenceDate.Equal(want) {
		t.Fatalf("reference date = %v, want %v", table.ReferenceDate, want)
	}

	// The blank-identity row and the unparseable-date row are dropped.
	if len(table.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(table.Products))
	}

	byID := map[string]ProductFact{}
	for _, p := range table.Products {
		byID[p.ProductID] = p
	}

	mlb1, ok := byID["MLB1"]
	if !ok {
		t.Fatal("MLB1 missing")
	}
	if mlb1.Quantity[0] != 3 {
		t.Fatalf("MLB1 current-window quantity = %d, want 3", mlb1.Quantity[0])
	}
	if mlb1.Revenue[0].String() != "300" {
		t.Fatalf("MLB1 current-window revenue = %s, want 300", mlb1.Revenue[0])
	}
	if mlb1.Quantity[1] != 3 || mlb1.Revenue[1].String() != "310.5" {
		t.Fatalf("MLB1 prior window = %d / %s", mlb1.Quantity[1], mlb1.Revenue[1])
	}

	// Identity falls back to SKU when the listing id cell is blank.
	if _, ok := byID["SKU-2"]; !ok {
		t.Fatal("SKU fallback row missing")
	}
}

func TestParseMercadoLivreAdsAndLogistics(t *testing.T) {
	table, err := ParseMercadoLivre(mlWorkbook(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Ads) != NumWindows || len(table.Logistics) != NumWindows {
		t.Fatalf("breakdowns not per window: %d / %d", len(table.Ads), len(table.Logistics))
	}

	ads := table.Ads[0]
	if ads.AdsQty != 1 || ads.OrganicQty != 2 {
		t.Fatalf("ads split = %d/%d, want 1/2", ads.AdsQty, ads.OrganicQty)
	}
	if ads.AdsRevenue.String() != "200" {
		t.Fatalf("ads revenue = %s", ads.AdsRevenue)
	}

	log := table.Logistics[0]
	if log.FullQty != 2 || log.CorreiosQty != 1 {
		t.Fatalf("logistics split = full %d correios %d", log.FullQty, log.CorreiosQty)
	}
	if log.FlexQty != 0 {
		t.Fatalf("flex rows in current window = %d, want 0", log.FlexQty)
	}
	if table.Logistics[1].FlexQty != 1 {
		t.Fatalf("flex row should land in the 31-60 window")
	}
}

func TestParseMercadoLivreMissingColumn(t *testing.T) {
	data := workbook(t, [][]any{
		{"Data da venda", "Unidades", "# de anúncio", "Título do anúncio", "Forma de entrega"},
		{"10/06/2024", "1", "MLB1", "Sem receita", "Full"},
	})
	_, err := ParseMercadoLivre(data)
	if err == nil {
		t.Fatal("expected missing column error")
	}
	if _, ok := err.(*MissingColumnError); !ok {
		t.Fatalf("error type = %T", err)
	}
}

func TestParseMercadoLivreEmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	table, err := ParseMercadoLivre(buf.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Products) != 0 {
		t.Fatalf("products = %d, want 0", len(table.Products))
	}
}

func TestParseMercadoLivreRejectsCorruptData(t *testing.T) {
	if _, err := ParseMercadoLivre(bytes.Repeat([]byte{0x42}, 64)); err == nil {
		t.Fatal("expected error for non-xlsx bytes")
	}
}
