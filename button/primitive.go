package button

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Kit selects the CSS framework the HTML primitive emits classes for
type Kit string

const (
	KitTailwind Kit = "tailwind"
	KitBulma    Kit = "bulma"
	KitPico     Kit = "pico"
	KitNone     Kit = "none"
)

// ParseKit validates a kit name
func ParseKit(name string) (Kit, error) {
	switch Kit(name) {
	case KitTailwind, KitBulma, KitPico, KitNone:
		return Kit(name), nil
	case "":
		return KitTailwind, nil
	default:
		return "", fmt.Errorf("invalid kit: %s (valid: tailwind, bulma, pico, none)", name)
	}
}

const buttonTemplate = `<button type="button" role="{{.Role}}" tabindex="{{.TabIndex}}"` +
	`{{with .Class}} class="{{.}}"{{end}}` +
	` data-variant="{{.Variant}}" data-color="{{.Color}}" data-size="{{.Size}}" data-radius="{{.Radius}}"` +
	`{{if .FullWidth}} data-block{{end}}` +
	`{{if .Disabled}} disabled aria-disabled="true"{{end}}` +
	`{{if .Loading}} data-loading aria-busy="true"{{end}}` +
	`{{with .AriaLabel}} aria-label="{{.}}"{{end}}` +
	`{{with .AriaDescribedBy}} aria-describedby="{{.}}"{{end}}` +
	`{{with .Action}} data-action="{{.}}"{{end}}>` +
	`{{with .LeftSection}}<span data-position="left">{{.}}</span>{{end}}` +
	`<span class="button-label">{{.Children}}</span>` +
	`{{with .RightSection}}<span data-position="right">{{.}}</span>{{end}}` +
	`</button>`

var htmlButton = template.Must(template.New("button").Parse(buttonTemplate))

// HTMLPrimitive renders a native <button> element
type HTMLPrimitive struct {
	kit Kit
}

// NewHTMLPrimitive creates an HTML primitive for the given CSS kit
func NewHTMLPrimitive(kit Kit) *HTMLPrimitive {
	return &HTMLPrimitive{kit: kit}
}

// Render implements Primitive
func (h *HTMLPrimitive) Render(w io.Writer, attrs Attributes) error {
	attrs.Class = joinClasses(kitClass(h.kit, attrs), attrs.Class)
	if err := htmlButton.Execute(w, attrs); err != nil {
		return fmt.Errorf("failed to render button: %w", err)
	}
	return nil
}

func kitClass(kit Kit, a Attributes) string {
	switch kit {
	case KitTailwind:
		classes := []string{"inline-flex", "items-center", "justify-center", "font-medium", tailwindSize(a.Size), "rounded-" + string(a.Radius)}
		switch a.Variant {
		case VariantFilled:
			classes = append(classes, fmt.Sprintf("bg-%s-600 text-white hover:bg-%s-700", a.Color, a.Color))
		case VariantLight:
			classes = append(classes, fmt.Sprintf("bg-%s-50 text-%s-700", a.Color, a.Color))
		case VariantOutline:
			classes = append(classes, fmt.Sprintf("border border-%s-600 text-%s-600", a.Color, a.Color))
		case VariantWhite:
			classes = append(classes, fmt.Sprintf("bg-white text-%s-600", a.Color))
		default:
			classes = append(classes, fmt.Sprintf("bg-transparent text-%s-600", a.Color))
		}
		if a.FullWidth {
			classes = append(classes, "w-full")
		}
		if a.Disabled {
			classes = append(classes, "opacity-50 cursor-not-allowed")
		}
		return strings.Join(classes, " ")
	case KitBulma:
		classes := []string{"button", "is-" + bulmaColor(a.Color)}
		switch a.Variant {
		case VariantLight:
			classes = append(classes, "is-light")
		case VariantOutline:
			classes = append(classes, "is-outlined")
		case VariantSubtle, VariantTransparent:
			classes = append(classes, "is-ghost")
		}
		if a.Size != SizeMD {
			classes = append(classes, "is-"+bulmaSize(a.Size))
		}
		if a.FullWidth {
			classes = append(classes, "is-fullwidth")
		}
		if a.Loading {
			classes = append(classes, "is-loading")
		}
		return strings.Join(classes, " ")
	case KitPico:
		// Pico styles <button> semantically
		switch a.Variant {
		case VariantOutline:
			return "outline"
		case VariantLight, VariantSubtle, VariantDefault:
			return "secondary"
		default:
			return ""
		}
	default:
		return ""
	}
}

func tailwindSize(s Size) string {
	switch s {
	case SizeXS:
		return "px-2 py-1 text-xs"
	case SizeSM:
		return "px-3 py-1.5 text-sm"
	case SizeLG:
		return "px-5 py-3 text-lg"
	case SizeXL:
		return "px-6 py-4 text-xl"
	default:
		return "px-4 py-2 text-base"
	}
}

func bulmaColor(color string) string {
	switch color {
	case "blue":
		return "link"
	case "green":
		return "success"
	case "red":
		return "danger"
	case "yellow":
		return "warning"
	case "cyan":
		return "info"
	default:
		return "primary"
	}
}

func bulmaSize(s Size) string {
	switch s {
	case SizeXS, SizeSM:
		return "small"
	case SizeLG:
		return "medium"
	case SizeXL:
		return "large"
	default:
		return "normal"
	}
}

func joinClasses(classes ...string) string {
	var out []string
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}
