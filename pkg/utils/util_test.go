package utils_test

import (
	"regexp"
	"testing"

	"Bingo/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenHashID(t *testing.T) {
	a := utils.GenHashID("salt", 1896135470069071872)
	b := utils.GenHashID("salt", 1896135470069071873)
	assert.GreaterOrEqual(t, len(a), 8)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, utils.GenHashID("salt", 1896135470069071872))
	assert.NotEqual(t, a, utils.GenHashID("pepper", 1896135470069071872))
	assert.Regexp(t, `^[a-zA-Z0-9]+$`, a)
}

func TestRandDigits(t *testing.T) {
	digits := regexp.MustCompile(`^\d{6}$`)
	seen := map[string]bool{}
	for range 20 {
		code, err := utils.RandDigits(6)
		require.NoError(t, err)
		assert.Regexp(t, digits, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestPanicTrace(t *testing.T) {
	assert.Contains(t, utils.PanicTrace("boom"), "boom\n")
}
