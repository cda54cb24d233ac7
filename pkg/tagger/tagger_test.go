package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagger_Tag(t *testing.T) {
	vocab := []string{"호재", "악재", "실적", "반도체", "AI", "M&A"}

	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{name: "vocabulary order", title: "삼성전자 반도체 실적 호재", want: []string{"호재", "실적", "반도체"}},
		{name: "no hits", title: "오늘의 날씨", want: []string{}},
		{name: "empty title", title: "", want: []string{}},
		{name: "whitespace only", title: " \t\n ", want: []string{}},
		{name: "case sensitive", title: "ai 투자 확대", want: []string{}},
		{name: "upper case hit", title: "AI 투자 확대", want: []string{"AI"}},
		{name: "substring without tokens", title: "대형M&A추진", want: []string{"M&A"}},
		{name: "repeated keyword counted once", title: "호재 호재 호재", want: []string{"호재"}},
	}

	tg := New(vocab, 10)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tg.Tag(tt.title)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagger_WhitespaceCollapse(t *testing.T) {
	tg := New([]string{"영업 이익"}, 10)
	assert.Equal(t, []string{"영업 이익"}, tg.Tag("분기   영업\n\t이익 증가"))
}

func TestTagger_Limit(t *testing.T) {
	tg := New([]string{"a", "b", "c", "d"}, 2)
	assert.Equal(t, []string{"a", "b"}, tg.Tag("a b c d"))

	unlimited := New([]string{"a", "b", "c", "d"}, 0)
	assert.Equal(t, []string{"a", "b", "c", "d"}, unlimited.Tag("abcd"))
}

func TestTagger_VocabularyCleanup(t *testing.T) {
	tg := New([]string{"", "실적", "실적", "호재"}, 10)
	assert.Equal(t, []string{"실적", "호재"}, tg.Tag("실적 호재"))
}

func TestTagger_Deterministic(t *testing.T) {
	tg := New([]string{"금리", "환율", "증시"}, 10)
	title := "환율 급등에 증시 흔들, 금리 동결"
	first := tg.Tag(title)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, tg.Tag(title))
	}
	assert.Equal(t, []string{"금리", "환율", "증시"}, first)
}
