package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tamago/caretaker/internal/clock"
)

func TestLoadFoodTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food_list.yaml")
	body := "foods:\n  - name: rice\n    weight: 2\n  - name: cake\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFoodTable(path)
	if err != nil {
		t.Fatalf("LoadFoodTable: %v", err)
	}
	if table.Count() != 2 {
		t.Fatalf("count = %d", table.Count())
	}
	names := table.Names()
	if names[0] != "rice" || names[1] != "cake" {
		t.Errorf("names = %v", names)
	}

	seen := map[string]int{}
	r := clock.Seeded(11)
	for i := 0; i < 300; i++ {
		seen[table.Pick(r)]++
	}
	if seen["rice"] == 0 || seen["cake"] == 0 || len(seen) != 2 {
		t.Errorf("picks = %v", seen)
	}
	if seen["rice"] <= seen["cake"] {
		t.Errorf("weights ignored: %v", seen)
	}
}

func TestLoadFoodTableMissingFile(t *testing.T) {
	table, err := LoadFoodTable(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if got := (FoodMenu{Table: table, Rand: clock.Seeded(1)}).Pick(); got != DefaultFood {
		t.Errorf("Pick = %q, want %q", got, DefaultFood)
	}
}

func TestLoadFoodTableInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"empty.yaml":   "foods: []\n",
		"noname.yaml":  "foods:\n  - weight: 3\n",
		"garbage.yaml": "foods: [\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFoodTable(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestRepositoryFoodList(t *testing.T) {
	table, err := LoadFoodTable(filepath.Join("..", "..", "data", "yaml", "food_list.yaml"))
	if err != nil {
		t.Fatalf("shipped food list: %v", err)
	}
	if table.Count() == 0 {
		t.Fatal("shipped food list is empty")
	}
}
