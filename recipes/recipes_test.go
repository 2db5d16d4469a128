package recipes

import (
	"testing"

	"tarifplus/models"
)

func TestFilterByIngredient(t *testing.T) {
	recipes := []models.Recipe{
		{ID: "r1", Title: "Menemen", Ingredients: []string{"Domates", "Yumurta", "Biber"}},
		{ID: "r2", Title: "Mercimek Çorbası", Ingredients: []string{"Kırmızı mercimek", "Soğan"}},
		{ID: "r3", Title: "Omlet", Ingredients: []string{"yumurta", "Tereyağı"}},
	}

	got := filterByIngredient(recipes, "Yumurta")
	if len(got) != 2 {
		t.Fatalf("got %d recipes, want 2", len(got))
	}
	if got[0].ID != "r1" || got[1].ID != "r3" {
		t.Errorf("got %s, %s, want r1, r3", got[0].ID, got[1].ID)
	}
}

func TestFilterByIngredientPartialMatch(t *testing.T) {
	recipes := []models.Recipe{
		{ID: "r1", Ingredients: []string{"Kırmızı mercimek"}},
	}
	if got := filterByIngredient(recipes, "mercimek"); len(got) != 1 {
		t.Errorf("substring match failed, got %d recipes", len(got))
	}
}

func TestFilterByIngredientNoMatch(t *testing.T) {
	recipes := []models.Recipe{
		{ID: "r1", Ingredients: []string{"Domates"}},
	}
	got := filterByIngredient(recipes, "tavuk")
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("got %d recipes, want 0", len(got))
	}
}
