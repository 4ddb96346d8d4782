package arabic_test

import (
	"testing"

	"gamasa/shared/arabic"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "hamza forms fold to bare alef", input: "أإآا", want: "اااا"},
		{name: "diacritics removed", input: "شَقَّة", want: "شقه"},
		{name: "tatweel removed", input: "جمـــصة", want: "جمصه"},
		{name: "alef maksura folds to yeh", input: "مصطفى", want: "مصطفي"},
		{name: "arabic indic digits", input: "شقة ٣ غرف", want: "شقه 3 غرف"},
		{name: "latin lower and accents", input: "Chalet  VUE Mér", want: "chalet vue mer"},
		{name: "whitespace collapsed", input: "  sea \t view  ", want: "sea view"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, arabic.Normalize(tt.input))
		})
	}
}

func TestSearchText(t *testing.T) {
	got := arabic.SearchText("شاليه على البحر", "", "جمصة", "Gamasa")

	assert.Equal(t, "شاليه علي البحر جمصه gamasa", got)
	assert.Contains(t, got, arabic.Normalize("جَمْصَة"))
}
