package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramibot/internal/content"
)

func TestMapRecords(t *testing.T) {
	rows := [][]string{
		{"#", " description ", "PARAMI"},
		{"1", "Generosity", "Dana"},
		{"", "", ""},
		{"3", "Virtue"},
		{"4", " Patience ", " Khanti "},
	}
	items, err := mapRecords(rows, DefaultTitleColumn, DefaultBodyColumn)
	require.NoError(t, err)
	assert.Equal(t, []content.Item{
		{Title: "Dana", Body: "Generosity"},
		{Title: "", Body: "Virtue"},
		{Title: "Khanti", Body: "Patience"},
	}, items)
}

func TestMapRecordsMissingColumn(t *testing.T) {
	_, err := mapRecords([][]string{{"Name", "Description"}}, DefaultTitleColumn, DefaultBodyColumn)
	assert.ErrorIs(t, err, ErrBadLayout)
}

func TestMapRecordsEmpty(t *testing.T) {
	items, err := mapRecords(nil, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, items)
}
