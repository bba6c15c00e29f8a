package component

import (
	"regexp"
	"strings"
)

// Definition is the fully resolved client shape of a component.
type Definition struct {
	Name        string
	VPath       string
	Props       []string
	CreatedHook bool
	Template    string
	Styles      []string
	Data        map[string]any
	Methods     []MethodDefinition
	Computed    []Computed
	Watch       []Watch
	Scripts     []string
	Locals      []string
}

// MethodDefinition is a client stub that forwards to a remote method.
type MethodDefinition struct {
	Name   string
	Pre    string
	Post   string
	Params []string
}

// DefinitionProvider resolves a component's definition from its registered
// type and raw content.
type DefinitionProvider interface {
	Definition(t *Type, content []byte) (*Definition, error)
}

// Content is the section split of a component file.
type Content struct {
	Template string
	Styles   []string
	Scripts  []string
}

var (
	templateRe = regexp.MustCompile(`(?s)<template[^>]*>(.*)</template>`)
	styleRe    = regexp.MustCompile(`(?s)<style[^>]*>(.*?)</style>`)
	scriptRe   = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)
)

// ParseContent splits raw component content into its template, style and
// script sections. Content without a template tag is taken as the template
// after style and script blocks are removed.
func ParseContent(raw []byte) Content {
	src := string(raw)
	var c Content

	for _, m := range styleRe.FindAllStringSubmatch(src, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			c.Styles = append(c.Styles, s)
		}
	}
	for _, m := range scriptRe.FindAllStringSubmatch(src, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			c.Scripts = append(c.Scripts, s)
		}
	}

	if m := templateRe.FindStringSubmatch(src); m != nil {
		c.Template = strings.TrimSpace(m[1])
	} else {
		rest := styleRe.ReplaceAllString(src, "")
		rest = scriptRe.ReplaceAllString(rest, "")
		c.Template = strings.TrimSpace(rest)
	}
	return c
}

// SectionProvider builds definitions from content sections, registration
// options and the view-model's default state.
type SectionProvider struct {
	settings Settings
}

func NewSectionProvider(settings Settings) *SectionProvider {
	return &SectionProvider{settings: settings}
}

func (p *SectionProvider) Definition(t *Type, content []byte) (*Definition, error) {
	vm, err := t.New()
	if err != nil {
		return nil, err
	}
	defer vm.Release()

	data, err := p.settings.Snapshot(vm)
	if err != nil {
		return nil, err
	}

	c := ParseContent(content)
	o := t.options

	def := &Definition{
		Name:        t.name,
		VPath:       t.VPath(),
		Props:       o.props,
		CreatedHook: o.createdHook,
		Template:    c.Template,
		Styles:      c.Styles,
		Data:        data,
		Computed:    o.computed,
		Watch:       o.watch,
		Scripts:     append(append([]string{}, o.mixins...), c.Scripts...),
		Locals:      o.locals,
	}

	for _, m := range t.ordered {
		md := MethodDefinition{Name: m.Name}
		for _, param := range m.Params {
			md.Params = append(md.Params, param.Name)
		}
		for _, ms := range o.methodScripts {
			if lowerCamel(ms.method) == m.Key {
				md.Pre += ms.pre
				md.Post += ms.post
			}
		}
		def.Methods = append(def.Methods, md)
	}

	return def, nil
}
