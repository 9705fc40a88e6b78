package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeXMLTreeNestedStructure(t *testing.T) {
	root, err := decodeXMLTree(`<DOC><NODE><EVENT><KIND> @LOG_EOP </KIND></EVENT></NODE></DOC>`)
	require.NoError(t, err)
	assert.Equal(t, "DOC", root.Tag)
	require.Len(t, root.Children, 1)

	node := root.Children[0]
	assert.Equal(t, "NODE", node.Tag)
	require.Len(t, node.Children, 1)

	event := node.Children[0]
	assert.Equal(t, "EVENT", event.Tag)
	require.Len(t, event.Children, 1)
	assert.Equal(t, "@LOG_EOP", event.Children[0].trimmedText())
}

func TestDecodeXMLTreeUnbalancedIsError(t *testing.T) {
	_, err := decodeXMLTree(`<DOC><NODE></DOC>`)
	assert.Error(t, err)
}

func TestDecodeXMLTreeEmptyIsError(t *testing.T) {
	_, err := decodeXMLTree(``)
	assert.Error(t, err)
}
