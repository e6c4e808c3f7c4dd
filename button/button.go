// Package button renders accessible buttons.
//
// The wrapper normalizes interaction and accessibility attributes before
// handing them to a visual Primitive:
//
//   - the effective disabled state is Disabled || Loading
//   - tabindex is -1 while effectively disabled and 0 otherwise
//   - role is always "button"
//   - aria-label and aria-describedby are passed through untouched and are
//     omitted when empty
//
// Attributes are recomputed on every render; nothing is cached between
// renders.
package button

import (
	"bytes"
	"html/template"
	"io"
)

// Variant is the visual style of the button
type Variant string

const (
	VariantFilled      Variant = "filled"
	VariantLight       Variant = "light"
	VariantOutline     Variant = "outline"
	VariantSubtle      Variant = "subtle"
	VariantTransparent Variant = "transparent"
	VariantWhite       Variant = "white"
	VariantDefault     Variant = "default"
)

// Size is a size token used for both size and corner radius
type Size string

const (
	SizeXS Size = "xs"
	SizeSM Size = "sm"
	SizeMD Size = "md"
	SizeLG Size = "lg"
	SizeXL Size = "xl"
)

// Defaults applied when the caller leaves a visual parameter empty.
const (
	DefaultVariant = VariantFilled
	DefaultColor   = "blue"
	DefaultSize    = SizeMD
	DefaultRadius  = SizeMD
)

// Props are the inputs of a single render
type Props struct {
	Children template.HTML
	OnClick  func()

	Disabled bool
	Loading  bool

	Variant      Variant
	Color        string
	Size         Size
	Radius       Size
	LeftSection  template.HTML
	RightSection template.HTML
	FullWidth    bool

	// AriaLabel is the accessible name. Empty means no aria-label attribute.
	AriaLabel string
	// AriaDescribedBy references the element holding descriptive text.
	AriaDescribedBy string

	// Action names the activation for the serving layer (data-action).
	Action string
	// Class is appended to the classes chosen by the primitive.
	Class string
}

// Attributes is the normalized attribute set handed to a Primitive
type Attributes struct {
	Role     string
	TabIndex int
	Disabled bool
	Loading  bool

	AriaLabel       string
	AriaDescribedBy string

	Variant      Variant
	Color        string
	Size         Size
	Radius       Size
	FullWidth    bool
	LeftSection  template.HTML
	RightSection template.HTML
	Children     template.HTML

	Action string
	Class  string
}

// Primitive is the underlying visual button
type Primitive interface {
	Render(w io.Writer, attrs Attributes) error
}

// EffectivelyDisabled reports whether the control is non-interactive
func (p Props) EffectivelyDisabled() bool {
	return p.Disabled || p.Loading
}

// Resolve normalizes props into the attributes presented to the primitive
func Resolve(p Props) Attributes {
	disabled := p.EffectivelyDisabled()

	tabIndex := 0
	if disabled {
		tabIndex = -1
	}

	attrs := Attributes{
		Role:            "button",
		TabIndex:        tabIndex,
		Disabled:        disabled,
		Loading:         p.Loading,
		AriaLabel:       p.AriaLabel,
		AriaDescribedBy: p.AriaDescribedBy,
		Variant:         p.Variant,
		Color:           p.Color,
		Size:            p.Size,
		Radius:          p.Radius,
		FullWidth:       p.FullWidth,
		LeftSection:     p.LeftSection,
		RightSection:    p.RightSection,
		Children:        p.Children,
		Action:          p.Action,
		Class:           p.Class,
	}

	if attrs.Variant == "" {
		attrs.Variant = DefaultVariant
	}
	if attrs.Color == "" {
		attrs.Color = DefaultColor
	}
	if attrs.Size == "" {
		attrs.Size = DefaultSize
	}
	if attrs.Radius == "" {
		attrs.Radius = DefaultRadius
	}

	return attrs
}

// Activate delivers one activation event. OnClick runs exactly once unless
// the control is effectively disabled. It reports whether OnClick ran.
func Activate(p Props) bool {
	if p.EffectivelyDisabled() {
		return false
	}
	if p.OnClick != nil {
		p.OnClick()
	}
	return true
}

// Button binds the wrapper to a Primitive
type Button struct {
	primitive Primitive
}

// New creates a Button that delegates to primitive
func New(primitive Primitive) *Button {
	return &Button{primitive: primitive}
}

// Render resolves p and delegates to the primitive
func (b *Button) Render(w io.Writer, p Props) error {
	return b.primitive.Render(w, Resolve(p))
}

// HTML renders p into a template-safe fragment
func (b *Button) HTML(p Props) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.Render(&buf, p); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// FuncMap exposes the button as the "button" template function
func (b *Button) FuncMap() template.FuncMap {
	return template.FuncMap{
		"button": b.HTML,
	}
}

var std = New(NewHTMLPrimitive(KitTailwind))

// Render renders p with the default HTML primitive
func Render(w io.Writer, p Props) error {
	return std.Render(w, p)
}

// HTML renders p with the default HTML primitive
func HTML(p Props) (template.HTML, error) {
	return std.HTML(p)
}
