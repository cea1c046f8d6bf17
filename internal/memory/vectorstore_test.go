package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupContextReturnsEmptyWhenUnindexed(t *testing.T) {
	store, err := NewVectorStore(32, nil)
	require.NoError(t, err)

	res, err := store.LookupContext(context.Background(), map[string]string{"q": "anything"}, 0)
	require.NoError(t, err)
	require.Empty(t, res.Matches)
	require.Empty(t, res.Summary)
}

func TestLookupContextFindsIndexedDocument(t *testing.T) {
	store, err := NewVectorStore(32, nil)
	require.NoError(t, err)

	require.NoError(t, store.Index(context.Background(), Document{
		Path:    "pkg/widget/widget.go",
		Content: "package widget\n\nfunc NewWidget() *Widget { return &Widget{} }",
	}))
	require.NoError(t, store.Index(context.Background(), Document{
		Path:    "pkg/gadget/gadget.go",
		Content: "package gadget\n\nfunc NewGadget() *Gadget { return &Gadget{} }",
	}))

	res, err := store.LookupContext(context.Background(), map[string]string{"symbol": "widget"}, 100)
	require.NoError(t, err)
	require.NotEmpty(t, res.Matches)
	require.Equal(t, "pkg/widget/widget.go", res.Matches[0].Path)
	require.NotEmpty(t, res.Summary)
}

func TestLookupContextRespectsMaxTokens(t *testing.T) {
	store, err := NewVectorStore(32, nil)
	require.NoError(t, err)
	require.NoError(t, store.Index(context.Background(), Document{
		Path:    "a.go",
		Content: "alpha beta gamma delta epsilon zeta eta theta iota kappa",
	}))

	res, err := store.LookupContext(context.Background(), map[string]string{"q": "alpha"}, 3)
	require.NoError(t, err)
	require.LessOrEqual(t, len(strings.Fields(res.Summary)), 3)
}
