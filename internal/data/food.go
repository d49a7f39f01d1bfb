package data

import (
	"errors"
	"fmt"
	"os"

	"github.com/tamago/caretaker/internal/clock"
	"gopkg.in/yaml.v3"
)

// Food is one entry of the food list. Weight biases random picks.
type Food struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

type foodListFile struct {
	Foods []Food `yaml:"foods"`
}

// FoodTable holds the foods a caretaker can serve, in file order.
type FoodTable struct {
	foods []Food
	total int
}

// DefaultFood is served when no food list is available.
const DefaultFood = "an apple"

// LoadFoodTable loads the food list from a YAML file. A missing file yields
// a table with only DefaultFood.
func LoadFoodTable(path string) (*FoodTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewFoodTable([]Food{{Name: DefaultFood, Weight: 1}}), nil
		}
		return nil, fmt.Errorf("read food_list: %w", err)
	}
	var f foodListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse food_list: %w", err)
	}
	if len(f.Foods) == 0 {
		return nil, fmt.Errorf("food_list %s: no foods", path)
	}
	for i, food := range f.Foods {
		if food.Name == "" {
			return nil, fmt.Errorf("food_list %s: entry %d has no name", path, i)
		}
	}
	return NewFoodTable(f.Foods), nil
}

// NewFoodTable builds a table; weights below 1 count as 1.
func NewFoodTable(foods []Food) *FoodTable {
	t := &FoodTable{foods: make([]Food, len(foods))}
	copy(t.foods, foods)
	for i := range t.foods {
		if t.foods[i].Weight < 1 {
			t.foods[i].Weight = 1
		}
		t.total += t.foods[i].Weight
	}
	return t
}

// Count returns the number of foods.
func (t *FoodTable) Count() int {
	return len(t.foods)
}

// Names lists the foods in file order.
func (t *FoodTable) Names() []string {
	out := make([]string, len(t.foods))
	for i, f := range t.foods {
		out[i] = f.Name
	}
	return out
}

// Pick draws a weighted random food.
func (t *FoodTable) Pick(r clock.Rand) string {
	if t.total == 0 {
		return DefaultFood
	}
	n := r.IntN(t.total)
	for _, f := range t.foods {
		if n < f.Weight {
			return f.Name
		}
		n -= f.Weight
	}
	return t.foods[len(t.foods)-1].Name
}

// FoodMenu binds a table to a random source so it can choose meals on its own.
type FoodMenu struct {
	Table *FoodTable
	Rand  clock.Rand
}

func (m FoodMenu) Pick() string {
	return m.Table.Pick(m.Rand)
}
