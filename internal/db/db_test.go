package db

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/rental-desk/internal/config"
)

func TestNewWithoutDSNDisablesJournal(t *testing.T) {
	var buf bytes.Buffer
	database, err := New(&config.Config{}, zerolog.New(&buf))

	require.NoError(t, err)
	assert.Nil(t, database)
	assert.Equal(t, 1, strings.Count(buf.String(), "journal disabled"))
}
