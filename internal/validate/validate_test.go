package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pintare/internal/validate"
)

func TestEmail(t *testing.T) {
	got, ok := validate.Email("  cliente@pintare.com.br ")
	assert.True(t, ok)
	assert.Equal(t, "cliente@pintare.com.br", got)

	for _, bad := range []string{"", "sem-arroba", "a@b", strings.Repeat("a", 250) + "@x.com"} {
		_, ok := validate.Email(bad)
		assert.False(t, ok, bad)
	}
}

func TestPositiveInt(t *testing.T) {
	assert.Equal(t, 3, validate.PositiveInt("3", 1))
	assert.Equal(t, 10, validate.PositiveInt("010", 1))
	assert.Equal(t, 9, validate.PositiveInt("", 9))
	assert.Equal(t, 9, validate.PositiveInt("0", 9))
	assert.Equal(t, 9, validate.PositiveInt("-2", 9))
	assert.Equal(t, 9, validate.PositiveInt("abc", 9))
}

func TestID(t *testing.T) {
	id, ok := validate.ID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	_, ok = validate.ID("0")
	assert.False(t, ok)
	_, ok = validate.ID("4x")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"Pistola Airless", "Tanque"}, validate.List("Pistola Airless, ,Tanque"))
	assert.Nil(t, validate.List(" "))
}

func TestQ(t *testing.T) {
	assert.Equal(t, "hvlp", validate.Q("  hvlp "))
	assert.Len(t, validate.Q(strings.Repeat("x", 500)), 100)
}

func TestBearer(t *testing.T) {
	assert.Equal(t, "abc.def", validate.Bearer("Bearer abc.def"))
	assert.Equal(t, "abc", validate.Bearer("bearer  abc"))
	assert.Empty(t, validate.Bearer("abc"))
	assert.Empty(t, validate.Bearer("Basic abc"))
	assert.Empty(t, validate.Bearer(""))
}
