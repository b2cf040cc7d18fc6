package dbscope

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBenignSignals(t *testing.T) {
	assert.True(t, IsBenignBegin(ErrAlreadyBegun))
	assert.True(t, IsBenignBegin(fmt.Errorf("pg: %w", ErrAlreadyBegun)))
	assert.False(t, IsBenignBegin(ErrNotBegun))
	assert.False(t, IsBenignBegin(nil))

	assert.True(t, IsBenignFinalize(fmt.Errorf("mysql: %w", ErrNotBegun)))
	assert.False(t, IsBenignFinalize(ErrRequestInProgress))
	assert.False(t, IsBenignFinalize(errors.New("transaction has not begun")))
}
