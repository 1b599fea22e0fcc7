package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biznexa/biznexa-api/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Loja da Conceição & Filhos": "loja-da-conceicao-filhos",
		"  Mercado   São João  ":     "mercado-sao-joao",
		"Café_Express-24h":           "cafe-express-24h",
		"---":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), "entrada %q", in)
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "loja", slug.WithSuffix("loja", 1))
	assert.Equal(t, "loja-3", slug.WithSuffix("loja", 3))
}
