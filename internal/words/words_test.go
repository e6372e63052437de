package words_test

import (
	"testing"

	"github.com/dom/hops-games/internal/words"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lowercases", raw: "CAT", want: "cat"},
		{name: "trims", raw: "  dog\t", want: "dog"},
		{name: "folds sharp s", raw: "Straße", want: "strasse"},
		{name: "compatibility forms", raw: "ＦＩＳＨ", want: "fish"},
		{name: "already canonical", raw: "bird", want: "bird"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, words.Normalize(tt.raw))
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	assert.Equal(t, []string{"fish", "cat"}, words.NormalizeAll([]string{"Fish", "CAT"}))
}

func TestLooksNaughty(t *testing.T) {
	assert.False(t, words.LooksNaughty("cat dog fish"))
	assert.True(t, words.LooksNaughty("cat shit fish"))
}
