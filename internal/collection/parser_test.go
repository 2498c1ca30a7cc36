package collection

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collection.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadBasicCSV(t *testing.T) {
	path := writeCSV(t, "Name,Quantity,Set\nSol Ring,2,C21\nCounterspell,1,MH2\n")

	col, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if col.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", col.Len())
	}

	card, ok := col.Get("Sol Ring")
	if !ok {
		t.Fatal("Sol Ring not found")
	}
	if card.Quantity != 2 || card.SetCode != "C21" {
		t.Errorf("Sol Ring = %+v, want quantity 2 set C21", card)
	}
}

func TestLoadMergesDuplicates(t *testing.T) {
	path := writeCSV(t, "Name,Qty\nLightning Bolt,2\nLightning Bolt,3\n")

	col, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	card, ok := col.Get("Lightning Bolt")
	if !ok {
		t.Fatal("Lightning Bolt not found")
	}
	if card.Quantity != 5 {
		t.Errorf("Quantity = %d, want merged 5", card.Quantity)
	}
}

func TestLoadDelimiters(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"semicolon", "Name;Quantity\nSol Ring;1\nOpt;2\n"},
		{"tab", "Name\tQuantity\nSol Ring\t1\nOpt\t2\n"},
		{"pipe", "Name|Quantity\nSol Ring|1\nOpt|2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := Load(writeCSV(t, tt.content))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if col.Len() != 2 {
				t.Errorf("Len() = %d, want 2", col.Len())
			}
		})
	}
}

func TestLoadHeaderAliases(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"card name header", "Card Name,Count\nOpt,3\n"},
		{"title header", "Title,Copies\nOpt,3\n"},
		{"name containing header", "Card_Name_Field,Owned\nOpt,3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := Load(writeCSV(t, tt.content))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if _, ok := col.Get("Opt"); !ok {
				t.Error("Opt not found under aliased headers")
			}
		})
	}
}

func TestLoadDefaultsQuantity(t *testing.T) {
	col, err := Load(writeCSV(t, "Name\nSol Ring\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	card, _ := col.Get("Sol Ring")
	if card.Quantity != 1 {
		t.Errorf("Quantity = %d, want default 1", card.Quantity)
	}
}

func TestLoadFloatQuantity(t *testing.T) {
	col, err := Load(writeCSV(t, "Name,Quantity\nSol Ring,2.0\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	card, _ := col.Get("Sol Ring")
	if card.Quantity != 2 {
		t.Errorf("Quantity = %d, want 2 from \"2.0\"", card.Quantity)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"empty file", "", "empty"},
		{"header only", "Name,Quantity\n", "no valid card entries"},
		{"bad quantity", "Name,Quantity\nSol Ring,lots\n", "invalid quantity"},
		{"zero quantity", "Name,Quantity\nSol Ring,0\n", "invalid quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCSV(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*ParseError); !ok {
				t.Errorf("expected *ParseError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolveVariations(t *testing.T) {
	col, err := Load(writeCSV(t, "Name,Quantity\nThassa's Oracle,1\nThe Ur-Dragon,1\nFable of the Mirror-Breaker // Reflection of Kiki-Jiki,1\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		query string
		want  string
	}{
		{"Thassa's Oracle", "Thassa's Oracle"},
		{"thassas oracle", "Thassa's Oracle"},
		{"THASSA'S ORACLE", "Thassa's Oracle"},
		{"Ur-Dragon", "The Ur-Dragon"},
		{"Fable of the Mirror-Breaker", "Fable of the Mirror-Breaker // Reflection of Kiki-Jiki"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := col.Resolve(tt.query)
			if !ok {
				t.Fatalf("Resolve(%q) failed", tt.query)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}

	if _, ok := col.Resolve("Craterhoof Behemoth"); ok {
		t.Error("resolved a card the collection does not hold")
	}
}

func TestNamesSorted(t *testing.T) {
	col, err := Load(writeCSV(t, "Name\nZur the Enchanter\nAnimar, Soul of Elements\nMeren of Clan Nel Toth\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	names := col.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names() not sorted: %v", names)
		}
	}
}
