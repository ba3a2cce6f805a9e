package httpx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Title  string `json:"title" validate:"required,max=10"`
	ISBN   string `json:"isbn" validate:"max=32"`
	Copies int    `json:"copies" validate:"gte=1,lte=5"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	details := ValidateStruct(testPayload{Title: "Dune", ISBN: "978-0-441-01359-3", Copies: 2})
	assert.Empty(t, details)
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	details := ValidateStruct(testPayload{Copies: 1})
	require.Len(t, details, 1)
	assert.Equal(t, "title", details[0].Field)
	assert.Equal(t, "title is required", details[0].Message)
}

func TestValidateStruct_Messages(t *testing.T) {
	details := ValidateStruct(testPayload{Title: strings.Repeat("x", 11), ISBN: strings.Repeat("9", 33), Copies: 9})

	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "title must be at most 10 characters", byField["title"])
	assert.Equal(t, "isbn must be at most 32 characters", byField["isbn"])
	assert.Equal(t, "copies must be lte 5", byField["copies"])
}
