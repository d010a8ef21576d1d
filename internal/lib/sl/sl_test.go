package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("conexão recusada"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "conexão recusada", attr.Value.String())
}
