package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCandidatesExtractsUsernames(t *testing.T) {
	raw := "Вот что удалось найти:\n" +
		"1. @moscow_realty — квартиры в Москве\n" +
		"2. @spb_arenda: аренда в Петербурге\n" +
		"строка без кандидата\n" +
		"3. @moscow_realty — дубль\n"

	candidates := ParseCandidates(raw)

	assert.Len(t, candidates, 2)
	assert.Equal(t, "@moscow_realty", candidates[0].Username)
	assert.Equal(t, "квартиры в Москве", candidates[0].Description)
	assert.Equal(t, "@spb_arenda", candidates[1].Username)
	assert.Equal(t, "аренда в Петербурге", candidates[1].Description)
}

func TestParseCandidatesIgnoresShortAndMalformedHandles(t *testing.T) {
	raw := "@abc\n@1starts_with_digit\nplain text\n"

	assert.Empty(t, ParseCandidates(raw))
}

func TestParseCandidatesLowercasesUsernames(t *testing.T) {
	candidates := ParseCandidates("@Moscow_Realty — канал")

	assert.Len(t, candidates, 1)
	assert.Equal(t, "@moscow_realty", candidates[0].Username)
}

func TestServiceEnabled(t *testing.T) {
	assert.False(t, (*Service)(nil).Enabled())
	assert.False(t, NewService(nil, nil).Enabled())
}
