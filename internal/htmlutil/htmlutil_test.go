package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetTextFlattensNestedNodes(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<script>var a = 1; /* <b>not a tag</b> */</script>`))
	require.NoError(t, err)

	var script *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			script = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if script != nil {
				return
			}
			walk(c)
		}
	}
	walk(doc)
	require.NotNil(t, script)

	require.Contains(t, GetText(script), "var a = 1;")
}

func TestGetTextNilNodeReturnsEmpty(t *testing.T) {
	require.Equal(t, "", GetText(nil))
}
