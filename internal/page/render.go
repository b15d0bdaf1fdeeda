package page

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/recent"
	"github.com/MrSnakeDoc/wayfare/internal/widget"
)

// View is what a tour page shows.
type View struct {
	Tour    recent.Entry
	Widgets []widget.Config
	Recent  []recent.Entry
}

// Builder renders tour pages with their widgets.
type Builder struct {
	vendors widget.Vendors
	log     logger.Logger
	tmpl    *template.Template
}

func NewBuilder(v widget.Vendors, log logger.Logger) *Builder {
	return &Builder{
		vendors: v,
		log:     log,
		tmpl:    template.Must(template.New("tour").Parse(tourTemplate)),
	}
}

type widgetBlock struct {
	ID     string
	Kind   string
	State  string
	Markup template.HTML
}

type pageData struct {
	Tour    recent.Entry
	Widgets []widgetBlock
	Scripts []string
	Recent  []recent.Entry
}

// Render mounts every widget of v on a fresh document and writes the page.
// Widgets that still wait for their vendor are rendered in the loading state;
// the coordinator is closed before returning so no timer outlives the request.
func (b *Builder) Render(w io.Writer, v View) error {
	doc := NewDocument()
	coord := widget.NewCoordinator(doc,
		widget.WithLogger(b.log),
		widget.WithStrategies(widget.DefaultStrategies(b.vendors)))
	defer coord.Close()

	type mounted struct {
		slot *Slot
		inst *widget.Instance
	}
	list := make([]mounted, 0, len(v.Widgets))
	for _, cfg := range v.Widgets {
		slot := NewSlot(map[string]string{"class": "widget widget-" + string(cfg.Kind)})
		inst, err := coord.Mount(slot, cfg)
		if err != nil {
			b.log.Warn("skipping widget",
				logger.String("tour", v.Tour.Key()),
				logger.String("kind", string(cfg.Kind)),
				logger.Error(err))
			continue
		}
		list = append(list, mounted{slot: slot, inst: inst})
	}

	data := pageData{
		Tour:    v.Tour,
		Widgets: make([]widgetBlock, 0, len(list)),
		Scripts: doc.Scripts(),
		Recent:  v.Recent,
	}
	for _, m := range list {
		st := m.inst.Status()
		data.Widgets = append(data.Widgets, widgetBlock{
			ID:     st.ID,
			Kind:   string(st.Config.Kind),
			State:  displayState(st.State),
			Markup: slotMarkup(st, m.slot),
		})
	}

	if err := b.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render tour page: %w", err)
	}
	return nil
}

func displayState(s widget.State) string {
	switch s {
	case widget.StateInitialized:
		return "ready"
	case widget.StateExhausted, widget.StateFailed:
		return "unavailable"
	default:
		return "loading"
	}
}

var allowedTags = map[string]bool{
	"div":            true,
	"iframe":         true,
	widget.BookingTag: true,
}

// slotMarkup serializes the slot and its children. Only tags created by the
// widget strategies are emitted; attribute values are escaped.
func slotMarkup(st widget.Status, s *Slot) template.HTML {
	attrs := s.Attributes()
	attrs["data-instance"] = st.ID
	attrs["data-state"] = displayState(st.State)

	var sb strings.Builder
	writeOpen(&sb, "div", attrs)
	for _, el := range s.Children() {
		if !allowedTags[el.Tag] {
			continue
		}
		writeOpen(&sb, el.Tag, el.Attrs)
		sb.WriteString("</" + el.Tag + ">")
	}
	sb.WriteString("</div>")
	return template.HTML(sb.String()) //nolint:gosec // tags are allow-listed, values escaped
}

func writeOpen(sb *strings.Builder, tag string, attrs map[string]string) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if validAttrName(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	sb.WriteString("<" + tag)
	for _, k := range keys {
		fmt.Fprintf(sb, ` %s="%s"`, k, html.EscapeString(attrs[k]))
	}
	sb.WriteString(">")
}

func validAttrName(name string) bool {
	if name == "" || strings.HasPrefix(strings.ToLower(name), "on") {
		return false
	}
	for _, r := range name {
		if !(r == '-' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

const tourTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Tour.Title}}</title>
{{- range .Scripts}}
<script async src="{{.}}"></script>
{{- end}}
</head>
<body>
<article class="tour" data-tour="{{.Tour.Key}}">
<h1>{{.Tour.Title}}</h1>
{{- if .Tour.ImageURL}}
<img src="{{.Tour.ImageURL}}" alt="{{.Tour.Title}}">
{{- end}}
<p class="meta">{{printf "%.2f" .Tour.Price}} · {{printf "%.1f" .Tour.Rating}} ({{.Tour.ReviewCount}} reviews){{if .Tour.Duration}} · {{.Tour.Duration}}{{end}}</p>
{{- range .Widgets}}
<section class="booking" data-kind="{{.Kind}}">{{.Markup}}</section>
{{- end}}
</article>
{{- if .Recent}}
<aside class="recently-viewed">
<h2>Recently viewed</h2>
<ul>
{{- range .Recent}}
<li data-tour="{{.Key}}">{{.Title}}</li>
{{- end}}
</ul>
</aside>
{{- end}}
</body>
</html>
`
