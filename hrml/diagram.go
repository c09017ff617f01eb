package hrml

import (
	"context"
	"fmt"
	"strings"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// DiagramThemes maps the theme names accepted by DiagramSVG to D2 theme ids.
var DiagramThemes = map[string]int64{
	"neutral": d2themescatalog.NeutralDefault.ID,
	"grey":    d2themescatalog.NeutralGrey.ID,
}

var d2Escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// diagramLabel returns the label of the shape for t: the name followed by its attributes, one per line.
func diagramLabel(t *Tag) string {
	lines := []string{d2Escaper.Replace(t.Name)}
	for _, key := range t.AttrKeys() {
		lines = append(lines, d2Escaper.Replace(key+" = "+t.attrs[key]))
	}
	return strings.Join(lines, `\n`)
}

// DiagramSource returns a D2 description of the tree.
// Every tag is a shape labelled with its name and attributes, connected to its parent.
// Shapes get generated ids because tag names may contain characters with meaning in D2.
func (d *Document) DiagramSource() string {
	br := &ByteRenderer{}

	var ids []string
	next := 0

	d.root.Walk(func(t *Tag, depth int) bool {
		if depth == 0 {
			return true
		}

		// ids[depth-1] is the id of the tag being visited, and ids[depth-2] the id of its parent
		id := fmt.Sprintf("t%d", next)
		next++
		ids = append(ids[:depth-1], id)

		br.Renderln(id, `: "`, diagramLabel(t), `"`)
		if depth > 1 {
			br.Renderln(ids[depth-2], " -> ", id)
		}
		return true
	})

	return string(br.Bytes())
}

// DiagramSVG renders the tree as an SVG image with the D2 engine.
func (d *Document) DiagramSVG(ctx context.Context, themeID int64) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("creating text ruler: %w", err)
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}

	diagram, _, err := d2lib.Compile(ctx, d.DiagramSource(), &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, fmt.Errorf("compiling diagram: %w", err)
	}

	body, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: themeID,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering diagram: %w", err)
	}

	return body, nil
}
