package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylens/backend/internal/domain"
)

func TestNormalizeProductName(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		brand        string
		volume       string
		wantBase     string
		wantBrand    string
		wantVolume   string
		wantNameKey  string
		wantTokenLen int
	}{
		{
			name:         "inline liters",
			input:        "Lait 2% 2L",
			wantBase:     "lait 2",
			wantVolume:   "2l",
			wantNameKey:  "lait 2||2000ml",
			wantTokenLen: 2,
		},
		{
			name:         "diacritics and brand",
			input:        "Crème glacée Vanille",
			brand:        "Nestlé",
			wantBase:     "creme glacee vanille",
			wantBrand:    "nestle",
			wantNameKey:  "creme glacee vanille|nestle|",
			wantTokenLen: 3,
		},
		{
			name:         "explicit volume wins over inline",
			input:        "Jus d'orange 1L",
			volume:       "2 x 1 L",
			wantBase:     "jus d orange",
			wantVolume:   "2 x 1 L",
			wantNameKey:  "jus d orange||2000ml",
			wantTokenLen: 3,
		},
		{
			name:         "multipack guessed and summed",
			input:        "Eau de source 2x500ml",
			wantBase:     "eau de source",
			wantVolume:   "1000ml",
			wantNameKey:  "eau de source||1000ml",
			wantTokenLen: 3,
		},
		{
			name:         "unit counts stripped from base",
			input:        "Oeufs gros 12 unités",
			wantBase:     "oeufs gros",
			wantNameKey:  "oeufs gros||",
			wantTokenLen: 2,
		},
		{
			name:        "empty input",
			input:       "",
			wantNameKey: "||",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeProductName(tt.input, tt.brand, tt.volume)

			assert.Equal(t, tt.wantBase, got.BaseName)
			assert.Equal(t, tt.wantBrand, got.Brand)
			assert.Equal(t, tt.wantVolume, got.Volume)
			assert.Equal(t, tt.wantNameKey, got.NameKey)
			assert.Len(t, got.Tokens, tt.wantTokenLen)
		})
	}
}

func TestNormalizeProductName_WhitespaceAndPunctuationVariants(t *testing.T) {
	a := NormalizeProductName("Lait 2% 2L", "", "")
	b := NormalizeProductName("lait  2 % 2 l", "", "")

	assert.Equal(t, a.BaseName, b.BaseName)
	assert.Equal(t, CanonicalizeVolume(a.Volume), CanonicalizeVolume(b.Volume))
	assert.Greater(t, ComputeSimilarity("Lait 2% 2L", "lait  2 % 2 l"), 0.15)
}

func TestApplyNameKey_DuplicateEntriesShareKey(t *testing.T) {
	first := domain.NewProduct("Lait 2L", "", "", 1)
	second := domain.NewProduct("lait 2l", "", "", 1)

	ApplyNameKey(first)
	ApplyNameKey(second)

	require.NotEmpty(t, first.NameKey)
	assert.Equal(t, first.NameKey, second.NameKey)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestApplyNameKey_RecomputesStaleKey(t *testing.T) {
	p := &domain.Product{Name: "Pain blanc", Volume: "675 g", NameKey: "stale"}
	ApplyNameKey(p)
	assert.Equal(t, "pain blanc||675g", p.NameKey)

	ApplyNameKey(nil)
}

func TestCanonicalizeVolume(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2L", "2000ml"},
		{"2000 ml", "2000ml"},
		{"2x1L", "2000ml"},
		{"2 × 1 l", "2000ml"},
		{"1,5 kg", "1500g"},
		{"33 cl", "330ml"},
		{"12 oz", "340.194g"},
		{"2 lbs", "907.184g"},
		{"500 mg", "0.5g"},
		{"0.5 mg", "0.0005g"},
		{"0,1mg", "0.0001g"},
		{"Format  Familial", "format familial"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalizeVolume(tt.input))
		})
	}
}

func TestCanonicalizeVolume_Idempotent(t *testing.T) {
	inputs := []string{"2L", "2000 ml", "2x1L", "1,5 kg", "750ML", "12 oz", "500 mg", "0.5 mg", "0.1mg", "family size", "  ", "3 x 2,5 l"}

	for _, in := range inputs {
		once := CanonicalizeVolume(in)
		assert.Equal(t, once, CanonicalizeVolume(once), "input %q", in)
	}
}

func TestComputeSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "lait 2l", "lait 2l", 1},
		{"case insensitive", "Lait 2L", "lait 2l", 1},
		{"both empty", "", "", 1},
		{"one empty", "lait", "", 0},
		{"disjoint", "lait", "pain", 0},
		{"half overlap", "lait entier", "lait ecreme", 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}
