package server

import (
	"fmt"

	"github.com/livefir/imovel/button"
)

// Control is a button the server renders into views and activates on
// request. Props is called on every render and every activation so disabled
// and loading always reflect current state.
type Control struct {
	Name  string
	Views []string // views rendering this control; empty means every view
	Props func() button.Props
}

func (c Control) shownIn(view string) bool {
	if len(c.Views) == 0 {
		return true
	}
	for _, v := range c.Views {
		if v == view {
			return true
		}
	}
	return false
}

func (c Control) props() button.Props {
	p := c.Props()
	p.Action = c.Name
	return p
}

// controls indexes controls by name while keeping registration order
type controls struct {
	order  []Control
	byName map[string]Control
}

func newControls(list []Control) (*controls, error) {
	cs := &controls{byName: make(map[string]Control, len(list))}
	for _, c := range list {
		if c.Name == "" || c.Props == nil {
			return nil, fmt.Errorf("control %q needs a name and props", c.Name)
		}
		if _, dup := cs.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate control %q", c.Name)
		}
		cs.order = append(cs.order, c)
		cs.byName[c.Name] = c
	}
	return cs, nil
}

// forView returns fresh props for every control shown in view
func (cs *controls) forView(view string) []button.Props {
	var props []button.Props
	for _, c := range cs.order {
		if c.shownIn(view) {
			props = append(props, c.props())
		}
	}
	return props
}

// activate delivers one activation to the named control
func (cs *controls) activate(name string) error {
	c, ok := cs.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	if !button.Activate(c.props()) {
		return fmt.Errorf("%w: %s", ErrControlDisabled, name)
	}
	return nil
}
