package component

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"</", `<\/`,
)

// EncodeJS escapes s for use inside a single-quoted script string.
func EncodeJS(s string) string {
	return jsEscaper.Replace(s)
}

// WriteScript renders def as the body of a function returning the component
// options object of the client runtime.
func WriteScript(w io.Writer, def *Definition, s Settings) error {
	data, err := s.marshal(def.Data)
	if err != nil {
		return fmt.Errorf("serialize data of %q: %w", def.Name, err)
	}
	// "</" only occurs inside JSON strings, where "<\/" decodes to the same text
	data = bytes.ReplaceAll(data, []byte("</"), []byte(`<\/`))

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "//\n// Component: %q\n//\n", def.VPath)

	if len(def.Styles) > 0 {
		fmt.Fprintf(bw, "Vue.$addStyle('%s');\n", EncodeJS(strings.Join(def.Styles, "")))
	}

	bw.WriteString("return {\n")

	if len(def.Props) > 0 {
		fmt.Fprintf(bw, "  props: [%s],\n", quoteNames(def.Props))
	}

	if def.CreatedHook {
		bw.WriteString("  created: function() {\n    this.onCreated();\n  },\n")
	}

	fmt.Fprintf(bw, "  template: '%s',\n", EncodeJS(def.Template))
	fmt.Fprintf(bw, "  data: function() {\n    return %s;\n  },\n", data)

	if len(def.Methods) > 0 {
		bw.WriteString("  methods: {\n")
		for i, m := range def.Methods {
			params := strings.Join(m.Params, ", ")
			post := ""
			if m.Post != "" {
				post = "\n          .then(function(vm) { (function() {" + m.Post + "\n          }).call(vm); })"
			}
			fmt.Fprintf(bw, "    %s: function(%s) {%s\n      return this.$update(this, '%s', [%s])%s;\n    }%s\n",
				lowerCamel(m.Name), params, m.Pre, m.Name, params, post, separator(i, len(def.Methods)))
		}
		bw.WriteString("  },\n")
	}

	if len(def.Computed) > 0 {
		bw.WriteString("  computed: {\n")
		for i, c := range def.Computed {
			fmt.Fprintf(bw, "    %s: function() {\n      return %s;\n    }%s\n",
				lowerCamel(c.Name), c.Script, separator(i, len(def.Computed)))
		}
		bw.WriteString("  },\n")
	}

	if len(def.Watch) > 0 {
		bw.WriteString("  watch: {\n")
		for i, wb := range def.Watch {
			fmt.Fprintf(bw, "    %s: {\n      handler: function(v, o) {\n        if (this.$updating) return false;\n        this.%s(v, o);\n      },\n      deep: true\n    }%s\n",
				lowerCamel(wb.Field), lowerCamel(wb.Handler), separator(i, len(def.Watch)))
		}
		bw.WriteString("  },\n")
	}

	if len(def.Scripts) > 0 {
		bw.WriteString("  mixins: [\n")
		for i, script := range def.Scripts {
			fmt.Fprintf(bw, "(function() {\n%s\n})() || {}%s\n", script, separator(i, len(def.Scripts)))
		}
		bw.WriteString("  ],\n")
	}

	fmt.Fprintf(bw, "  local: [%s],\n", quoteNames(def.Locals))
	fmt.Fprintf(bw, "  vpath: '%s'\n", EncodeJS(def.VPath))
	bw.WriteString("}")

	return bw.Flush()
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + EncodeJS(lowerCamel(n)) + "'"
	}
	return strings.Join(quoted, ", ")
}

func separator(i, n int) string {
	if i == n-1 {
		return ""
	}
	return ","
}
