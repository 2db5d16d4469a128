package suggestions

import "testing"

func TestParseAIRecipesJSON(t *testing.T) {
	content := `[{"title":"Menemen","ingredients":"Domates, Yumurta","steps":"Kavur, kır, karıştır."}]`

	got := ParseAIRecipes(content)
	if len(got) != 1 {
		t.Fatalf("got %d recipes, want 1", len(got))
	}
	if got[0].Title != "Menemen" {
		t.Errorf("got title %q, want Menemen", got[0].Title)
	}
}

func TestParseAIRecipesFencedJSON(t *testing.T) {
	content := "```json\n[{\"title\":\"Omlet\",\"ingredients\":\"Yumurta\",\"steps\":\"Çırp ve pişir.\"}]\n```"

	got := ParseAIRecipes(content)
	if len(got) != 1 || got[0].Title != "Omlet" {
		t.Fatalf("fenced JSON not parsed, got %+v", got)
	}
}

func TestParseAIRecipesLooseFallback(t *testing.T) {
	content := `Tarif 1: Menemen
Malzemeler:
2 domates
3 yumurta
Yapılışı:
Domatesleri kavurun.
Yumurtaları ekleyin.

Tarif 2: Mercimek Çorbası
İçindekiler:
1 su bardağı mercimek
Hazırlanışı:
Mercimeği haşlayın.`

	got := ParseAIRecipes(content)
	if len(got) != 2 {
		t.Fatalf("got %d recipes, want 2: %+v", len(got), got)
	}
	if got[0].Title != "Menemen" {
		t.Errorf("got title %q, want Menemen", got[0].Title)
	}
	if got[0].Ingredients == "" || got[0].Steps == "" {
		t.Errorf("recipe missing parts: %+v", got[0])
	}
	if got[1].Title != "Mercimek Çorbası" {
		t.Errorf("got title %q, want Mercimek Çorbası", got[1].Title)
	}
}

func TestParseAIRecipesSkipsShortSections(t *testing.T) {
	content := "Tabii, işte öneriler:\n\nAfiyet olsun!"

	if got := ParseAIRecipes(content); len(got) != 0 {
		t.Errorf("chatter produced recipes: %+v", got)
	}
}
