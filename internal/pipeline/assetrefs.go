package pipeline

import (
	"bytes"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// refAttrs lists, per element, the attribute that may hold a reference to
// a file next to the rendered document.
var refAttrs = map[atom.Atom]string{
	atom.Img:  "src",
	atom.Link: "href",
	atom.A:    "href",
}

// ResolveAssetRefs rewrites relative image, stylesheet and link references
// of a rendered page to file:// URLs under baseDir. Pages rendered from a
// temporary location, such as during PDF export, need this to find assets
// that sit next to the source document. An empty baseDir leaves page as is.
//
// References escaping baseDir, fragments and URLs with a scheme are kept.
func ResolveAssetRefs(page []byte, baseDir string) ([]byte, error) {
	if baseDir == "" {
		return page, nil
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	doc, fragment, err := parsePage(page)
	if err != nil {
		return nil, err
	}
	rewriteRefs(doc, absBase)

	return renderPage(doc, fragment)
}

// parsePage parses a full document, or a fragment in body context when page
// lacks a doctype or html element.
func parsePage(page []byte) (*html.Node, bool, error) {
	head := strings.ToLower(string(bytes.TrimSpace(page[:min(len(page), 64)])))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(bytes.NewReader(page))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(bytes.NewReader(page), body)
	if err != nil {
		return nil, true, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, true, nil
}

func renderPage(doc *html.Node, fragment bool) ([]byte, error) {
	var buf bytes.Buffer
	if !fragment {
		if err := html.Render(&buf, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func rewriteRefs(n *html.Node, baseDir string) {
	if n.Type == html.ElementNode {
		if key, ok := refAttrs[n.DataAtom]; ok {
			for i, attr := range n.Attr {
				if attr.Key != key || !isLocalRef(attr.Val) {
					continue
				}
				target := filepath.Join(baseDir, filepath.FromSlash(attr.Val))
				if !isUnder(target, baseDir) {
					continue
				}
				n.Attr[i].Val = fileURL(target)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteRefs(c, baseDir)
	}
}

// isLocalRef reports whether ref is a relative file path.
func isLocalRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(ref) && !strings.HasPrefix(ref, "/")
}

func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
