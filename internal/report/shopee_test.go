package report

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func shopeeWorkbook(t *testing.T) []byte {
	t.Helper()
	return workbook(t, [][]any{
		{"ID do Item", "Produto", "Visitantes do Produto", "Unidades (Pedido pago)", "Vendas (Pedido pago) (BRL)"},
		{"SHP1", "Caneca térmica", "320", "12", "598,80"},
		{"SHP1", "Caneca térmica / variação azul", "", "5", "249,50"},
		{"SHP2", "Garrafa", "150", "4", "159,60"},
		{"SHP2", "Garrafa", "80", "2", "79,80"},
		{"", "Sem id", "10", "1", "9,90"},
	})
}

func TestParseShopee(t *testing.T) {
	table, err := ParseShopee(shopeeWorkbook(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if table.Channel != ChannelShopee {
		t.Fatalf("channel = %q", table.Channel)
	}
	if len(table.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(table.Products))
	}

	shp1 := table.Products[0]
	if shp1.ProductID != "SHP1" {
		t.Fatalf("first product = %q", shp1.ProductID)
	}
	// The variation row has no visitor count and must not double-count.
	if shp1.Quantity[0] != 12 || shp1.Revenue[0].String() != "598.8" {
		t.Fatalf("SHP1 = %d / %s", shp1.Quantity[0], shp1.Revenue[0])
	}

	shp2 := table.Products[1]
	if shp2.Quantity[0] != 6 || shp2.Revenue[0].String() != "239.4" {
		t.Fatalf("duplicate parent rows not merged: %d / %s", shp2.Quantity[0], shp2.Revenue[0])
	}

	// Single-period export: historical windows stay empty.
	for w := 1; w < NumWindows; w++ {
		if shp1.Quantity[w] != 0 || !shp1.Revenue[w].IsZero() {
			t.Fatalf("window %d should be empty", w)
		}
	}
}

func TestDetectChannel(t *testing.T) {
	if ch, err := DetectChannel(shopeeWorkbook(t)); err != nil || ch != ChannelShopee {
		t.Fatalf("shopee detect = %q, %v", ch, err)
	}
	if ch, err := DetectChannel(mlWorkbook(t)); err != nil || ch != ChannelMercadoLivre {
		t.Fatalf("mercado livre detect = %q, %v", ch, err)
	}
}

func TestDetectChannelCanonicalSheetWins(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", CanonicalSheet); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(CanonicalSheet, "A1", "MLB"); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	// The sheet name alone identifies a re-uploaded canonical export.
	ch, err := DetectChannel(buf.Bytes())
	if err != nil || ch != ChannelCanonical {
		t.Fatalf("canonical detect = %q, %v", ch, err)
	}
}
