package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Match
	}{
		{
			name: "english article",
			text: "As stated in Article 27, payment is due.",
			want: []Match{{Text: "Article 27", Number: "27"}},
		},
		{
			name: "uzbek modda",
			text: "27-bandga qarang, modda 5 bo'yicha",
			want: []Match{{Text: "modda 5", Number: "5"}},
		},
		{
			name: "uzbek suffixed modda",
			text: "Qo'shimcha ma'lumot uchun 27-modda bilan tanishing",
			want: []Match{{Text: "27-modda", Number: "27"}},
		},
		{
			name: "russian article",
			text: "Согласно статья 12 настоящего договора",
			want: []Match{{Text: "статья 12", Number: "12"}},
		},
		{
			name: "multiple references",
			text: "Section 3 and Clause 15 apply together",
			want: []Match{
				{Text: "Section 3", Number: "3"},
				{Text: "Clause 15", Number: "15"},
			},
		},
		{
			name: "no references",
			text: "payment terms and delivery schedule",
			want: nil,
		},
		{
			name: "word without number is not a reference",
			text: "the article was amended later",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Find(tt.text))
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("see Article 27"))
	assert.True(t, Contains("Статья 5 применяется"))
	assert.False(t, Contains("general conditions"))
}
