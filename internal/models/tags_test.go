package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	require.Equal(t, Tags{"work", "urgent", "q3"}, ParseTags("work, urgent ,q3"))
	require.Empty(t, ParseTags(""))
	require.Empty(t, ParseTags(" , ,"))
	require.Equal(t, Tags{"solo"}, ParseTags("solo"))
}

func TestParseTags_Idempotent(t *testing.T) {
	tags := ParseTags(" alpha,beta , gamma,,")
	require.Equal(t, tags, ParseTags(tags.String()))
}

func TestTagsScan(t *testing.T) {
	var tags Tags
	require.NoError(t, tags.Scan("a,b, c"))
	require.Equal(t, Tags{"a", "b", "c"}, tags)

	require.NoError(t, tags.Scan([]byte("x,y")))
	require.Equal(t, Tags{"x", "y"}, tags)

	require.NoError(t, tags.Scan(nil))
	require.Nil(t, tags)

	require.Error(t, tags.Scan(42))
}

func TestTagsValue(t *testing.T) {
	v, err := Tags{" a ", "", "b"}.Value()
	require.NoError(t, err)
	require.Equal(t, "a,b", v)

	v, err = Tags{}.Value()
	require.NoError(t, err)
	require.Equal(t, "", v)
}
