package button

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// renderNode renders p with the given kit and returns the <button> node
func renderNode(t *testing.T, kit Kit, p Props) *html.Node {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, New(NewHTMLPrimitive(kit)).Render(&buf, p))

	doc, err := html.Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)

	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "button" {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	require.NotNil(t, found, "no <button> in %q", buf.String())
	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// TestResolve_DisabledLoadingMatrix checks every disabled/loading combination
func TestResolve_DisabledLoadingMatrix(t *testing.T) {
	for _, disabled := range []bool{false, true} {
		for _, loading := range []bool{false, true} {
			t.Run(fmt.Sprintf("disabled=%v/loading=%v", disabled, loading), func(t *testing.T) {
				attrs := Resolve(Props{Disabled: disabled, Loading: loading})
				want := disabled || loading

				if attrs.Disabled != want {
					t.Errorf("Disabled = %v, want %v", attrs.Disabled, want)
				}

				wantTab := 0
				if want {
					wantTab = -1
				}
				if attrs.TabIndex != wantTab {
					t.Errorf("TabIndex = %d, want %d", attrs.TabIndex, wantTab)
				}

				node := renderNode(t, KitNone, Props{Disabled: disabled, Loading: loading})
				tab, _ := attr(node, "tabindex")
				assert.Equal(t, fmt.Sprint(wantTab), tab)
				_, hasDisabled := attr(node, "disabled")
				assert.Equal(t, want, hasDisabled)
			})
		}
	}
}

func TestResolve_RecomputedEachRender(t *testing.T) {
	p := Props{Loading: true}
	assert.Equal(t, -1, Resolve(p).TabIndex)

	p.Loading = false
	assert.Equal(t, 0, Resolve(p).TabIndex)
}

func TestResolve_Defaults(t *testing.T) {
	attrs := Resolve(Props{Children: "Salvar"})

	assert.Equal(t, VariantFilled, attrs.Variant)
	assert.Equal(t, "blue", attrs.Color)
	assert.Equal(t, SizeMD, attrs.Size)
	assert.Equal(t, SizeMD, attrs.Radius)
	assert.False(t, attrs.FullWidth)
	assert.Equal(t, "button", attrs.Role)

	node := renderNode(t, KitTailwind, Props{Children: "Salvar"})
	for key, want := range map[string]string{
		"data-variant": "filled",
		"data-color":   "blue",
		"data-size":    "md",
		"data-radius":  "md",
		"role":         "button",
	} {
		got, ok := attr(node, key)
		assert.True(t, ok, "missing %s", key)
		assert.Equal(t, want, got, key)
	}
	_, block := attr(node, "data-block")
	assert.False(t, block)
}

func TestResolve_ForwardsVisualParameters(t *testing.T) {
	p := Props{
		Variant:      VariantOutline,
		Color:        "red",
		Size:         SizeLG,
		Radius:       SizeXL,
		FullWidth:    true,
		LeftSection:  "<i>+</i>",
		RightSection: "<i>→</i>",
		Children:     "Excluir",
	}
	attrs := Resolve(p)

	assert.Equal(t, VariantOutline, attrs.Variant)
	assert.Equal(t, "red", attrs.Color)
	assert.Equal(t, SizeLG, attrs.Size)
	assert.Equal(t, SizeXL, attrs.Radius)
	assert.True(t, attrs.FullWidth)
	assert.Equal(t, p.LeftSection, attrs.LeftSection)
	assert.Equal(t, p.RightSection, attrs.RightSection)
	assert.Equal(t, p.Children, attrs.Children)
}

func TestRender_NoInventedAccessibleName(t *testing.T) {
	node := renderNode(t, KitNone, Props{Children: "Salvar"})

	_, hasLabel := attr(node, "aria-label")
	assert.False(t, hasLabel, "aria-label must not be set without input")
	_, hasDesc := attr(node, "aria-describedby")
	assert.False(t, hasDesc, "aria-describedby must not be set without input")
}

func TestRender_AccessibilityPassThrough(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 20; i++ {
		label := faker.Name()
		describedBy := faker.LetterN(8)

		node := renderNode(t, KitTailwind, Props{
			Children:        "x",
			AriaLabel:       label,
			AriaDescribedBy: describedBy,
		})

		got, ok := attr(node, "aria-label")
		require.True(t, ok)
		assert.Equal(t, label, got)

		got, ok = attr(node, "aria-describedby")
		require.True(t, ok)
		assert.Equal(t, describedBy, got)
	}
}

func TestRender_RoleAlwaysButton(t *testing.T) {
	for _, kit := range []Kit{KitTailwind, KitBulma, KitPico, KitNone} {
		node := renderNode(t, kit, Props{Disabled: true})
		role, _ := attr(node, "role")
		assert.Equal(t, "button", role, "kit %s", kit)
	}
}

func TestRender_LoadingMarksBusy(t *testing.T) {
	node := renderNode(t, KitBulma, Props{Loading: true, Children: "Enviando"})

	busy, _ := attr(node, "aria-busy")
	assert.Equal(t, "true", busy)
	class, _ := attr(node, "class")
	assert.Contains(t, class, "is-loading")
}

func TestRender_EscapesAttributeValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Props{AriaLabel: `"><script>`}))
	assert.NotContains(t, buf.String(), "<script>")
}

func TestActivate(t *testing.T) {
	tests := []struct {
		name     string
		disabled bool
		loading  bool
		want     int
	}{
		{"enabled", false, false, 1},
		{"disabled", true, false, 0},
		{"loading", false, true, 0},
		{"disabled and loading", true, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			p := Props{Disabled: tt.disabled, Loading: tt.loading, OnClick: func() { calls++ }}

			fired := Activate(p)

			assert.Equal(t, tt.want, calls)
			assert.Equal(t, tt.want == 1, fired)
		})
	}
}

func TestActivate_NilHandler(t *testing.T) {
	assert.True(t, Activate(Props{}))
}

func TestParseKit(t *testing.T) {
	kit, err := ParseKit("")
	require.NoError(t, err)
	assert.Equal(t, KitTailwind, kit)

	kit, err = ParseKit("bulma")
	require.NoError(t, err)
	assert.Equal(t, KitBulma, kit)

	_, err = ParseKit("bootstrap")
	assert.Error(t, err)
}

type recordingPrimitive struct {
	got []Attributes
	err error
}

func (r *recordingPrimitive) Render(_ io.Writer, attrs Attributes) error {
	r.got = append(r.got, attrs)
	return r.err
}

func TestButton_DelegatesToPrimitive(t *testing.T) {
	rec := &recordingPrimitive{}
	b := New(rec)

	_, err := b.HTML(Props{Loading: true, AriaLabel: "Salvar imóvel"})
	require.NoError(t, err)

	require.Len(t, rec.got, 1)
	assert.Equal(t, "button", rec.got[0].Role)
	assert.Equal(t, -1, rec.got[0].TabIndex)
	assert.Equal(t, "Salvar imóvel", rec.got[0].AriaLabel)

	rec.err = errors.New("boom")
	_, err = b.HTML(Props{})
	assert.Error(t, err)
}
