package dumpreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleRecordWithItem(t *testing.T) {
	dump := "# record\n" +
		"path=actions/player/send_message\n" +
		"category=player\n" +
		"sign1=Player Action\n" +
		"sign2=Send Message\n" +
		"hasChest=true\n" +
		"item=slot 27: [minecraft:paper meta=0] Text | Enter the message here\n"

	records := Parse([]byte(dump))
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "actions/player/send_message", rec.Path)
	assert.True(t, rec.HasChest)
	assert.Equal(t, "Player Action", rec.Signs[0])
	require.Contains(t, rec.Items, 27)
	item := rec.Items[27]
	assert.Equal(t, "minecraft:paper", item.ID)
	assert.Equal(t, "Text", item.Name)
	assert.Equal(t, "Enter the message here", item.Lore)
}

func TestParse_MultipleRecordsSplitOnMarker(t *testing.T) {
	dump := "# record\npath=a\n# record\npath=b\n"
	records := Parse([]byte(dump))
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Path)
	assert.Equal(t, "b", records[1].Path)
}

func TestParse_MalformedItemLineSkippedSilently(t *testing.T) {
	dump := "# record\npath=a\nitem=not a valid item line\n"
	records := Parse([]byte(dump))
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Items)
}

func TestParse_EmptyRecordDropped(t *testing.T) {
	dump := "# record\n\n\n# record\npath=real\n"
	records := Parse([]byte(dump))
	require.Len(t, records, 1)
	assert.Equal(t, "real", records[0].Path)
}

func TestParse_TrailerMetadataIgnored(t *testing.T) {
	dump := "# record\npath=a\nrecords=1\n"
	records := Parse([]byte(dump))
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].Path)
}

func TestRead_MissingFileReturnsMissingInputError(t *testing.T) {
	_, err := Read("/nonexistent/path/to/dump.txt")
	require.Error(t, err)
}
