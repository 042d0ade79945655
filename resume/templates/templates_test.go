package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockResumeData(t *testing.T) {
	doc := MockResumeData()
	assert.Equal(t, "John Doe", doc.PersonalInfo.Name)
	assert.Len(t, doc.Skills, 8)
	assert.Len(t, doc.Experience, 2)
	require.NoError(t, doc.Validate())
}

func TestGetReturnsIndependentCopies(t *testing.T) {
	a, ok := Get("Creative")
	require.True(t, ok)
	a.Skills[0] = "changed"

	b, ok := Get(Creative)
	require.True(t, ok)
	assert.Equal(t, "Figma", b.Skills[0])
	assert.Equal(t, "Sarah Johnson", b.PersonalInfo.Name)
	assert.NotNil(t, b.Projects)
}

func TestGetUnknown(t *testing.T) {
	_, ok := Get("retro")
	assert.False(t, ok)
	assert.Equal(t, []string{Creative, Executive, Modern}, Names())
}

func TestTemplatesValidate(t *testing.T) {
	for _, name := range Names() {
		doc, ok := Get(name)
		require.True(t, ok)
		assert.NoError(t, doc.Validate(), name)
	}
}
