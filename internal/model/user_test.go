package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenValues(t *testing.T) {
	user := User{
		Tokens: []UserToken{
			{Token: "abc"},
			{Token: "def"},
		},
	}
	assert.Equal(t, []string{"abc", "def"}, user.TokenValues())

	empty := User{}
	assert.Empty(t, empty.TokenValues())
}
