package clientmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Jane   O'Brien ", "jane o'brien"},
		{"José Núñez", "jose nunez"},
		{"STRASSE", "strasse"},
		{"مُحَمَّد", "محمد"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestScore(t *testing.T) {
	jane := Client{Name: "Jane O'Brien"}
	ali := Client{Name: "Ali", Phone: "+966 50 123 4567"}

	tests := []struct {
		name   string
		client Client
		query  string
		want   float64
	}{
		{"exact", jane, "jane o'brien", WeightExact},
		{"exact without diacritics", Client{Name: "José Núñez"}, "jose nunez", WeightExact},
		{"exact arabic without harakat", Client{Name: "مُحَمَّد"}, "محمد", WeightExact},
		{"prefix", jane, "Jan", WeightPrefix},
		{"substring", jane, "brien", WeightSubstring},
		{"token prefixes", jane, "o'b jan", WeightTokens},
		{"phone digits", ali, "4567", WeightPhone},
		{"phone with arabic digits", ali, "٤٥٦٧", WeightPhone},
		{"phone too short", ali, "45", 0},
		{"fuzzy", Client{Name: "Mohammed"}, "mohamed", (1 - 1.0/8) * WeightFuzzy},
		{"empty query", jane, "   ", 0},
		{"empty name", Client{}, "jane", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.client, tt.query)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestSuggest(t *testing.T) {
	clients := []Client{
		{ID: "3", Name: "John Doe"},
		{ID: "2", Name: "Janet Smith"},
		{ID: "1", Name: "Jane O'Brien"},
		{ID: "4", Name: "Ali", Phone: "0501234567"},
	}

	got := Suggest(clients, "jan", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Client.ID)
	assert.Equal(t, "2", got[1].Client.ID)
	assert.Equal(t, WeightPrefix, got[0].Score)

	got = Suggest(clients, "jan", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Client.ID)

	got = Suggest(clients, "050 123", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].Client.ID)

	assert.Empty(t, Suggest(clients, "zzzzzz", 0))
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"محمد", "أحمد", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein([]rune(tt.a), []rune(tt.b)), tt.a+"/"+tt.b)
	}
}
