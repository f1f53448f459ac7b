package render

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"covid-dash/internal/figure"
	"covid-dash/internal/layout"
)

const assetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

var pageTpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootswatch@4.5.2/dist/darkly/bootstrap.min.css">
<script src="{{.Assets}}echarts.min.js"></script>
<script src="{{.Assets}}themes/chalk.js"></script>
<script src="{{.Assets}}maps/world.js"></script>
<script src="/config.js"></script>
<style>
body { background-color: #060606; }
.graph .container { max-width: 100%; padding: 0; }
.graph .item { margin: 0 auto; }
</style>
</head>
<body>
{{.Body}}
<script>
window.__MAP_IDS__ = {{.MapIDs}};
window.addEventListener('load', function () {
  window.__MAP_IDS__.forEach(function (id) {
    var dom = document.getElementById(id);
    var chart = dom && echarts.getInstanceByDom(dom);
    if (!chart) { return; }
    chart.on('click', function (p) {
      var u = new URL(window.location.href);
      u.searchParams.set('click', (p.data && p.data.country) || p.name);
      window.location.href = u.toString();
    });
  });
});
</script>
</body>
</html>
`))

type pageView struct {
	Title  string
	Assets string
	MapIDs []string
	Body   template.HTML
}

// Page：渲染完整 HTML 页面；所有地图图表都绑定点击事件，点击后带 click 参数重新请求当前页面
func Page(w io.Writer, title string, root *layout.Node) error {
	var b strings.Builder
	var maps []string
	writeNode(&b, root, &maps)
	if maps == nil {
		maps = []string{}
	}
	return pageTpl.Execute(w, pageView{Title: title, Assets: assetsHost, MapIDs: maps, Body: template.HTML(b.String())})
}

func writeNode(b *strings.Builder, n *layout.Node, maps *[]string) {
	if n == nil {
		return
	}
	esc := html.EscapeString
	switch n.Kind {
	case layout.KindBreak:
		b.WriteString("<br>")
		return
	case layout.KindHeading:
		lvl := n.Level
		if lvl < 1 || lvl > 6 {
			lvl = 4
		}
		style := ` style="font-weight:600"`
		if n.Align != "" {
			style = fmt.Sprintf(` style="font-weight:600;text-align:%s"`, esc(n.Align))
		}
		fmt.Fprintf(b, "<h%d%s>%s</h%d>", lvl, style, esc(n.Text), lvl)
		return
	case layout.KindText:
		fmt.Fprintf(b, "<p>%s</p>", esc(n.Text))
		return
	case layout.KindLink:
		fmt.Fprintf(b, `<a class="ml-2" href="%s">%s</a>`, esc(n.Href), esc(n.Text))
		return
	case layout.KindGraph:
		if n.Figure == nil {
			return
		}
		if n.Figure.Kind == figure.KindChoropleth {
			*maps = append(*maps, n.ID)
		}
		fmt.Fprintf(b, `<div class="graph" data-kind="%s">%s</div>`, esc(string(n.Figure.Kind)), Snippet(n.ID, n.Figure))
		return
	}
	fmt.Fprintf(b, `<div class="%s">`, esc(classOf(n)))
	for _, c := range n.Children {
		writeNode(b, c, maps)
	}
	b.WriteString("</div>")
}

func classOf(n *layout.Node) string {
	var base string
	switch n.Kind {
	case layout.KindRow:
		base = "row"
	case layout.KindCol:
		base = "col"
		if n.Width > 0 {
			base = fmt.Sprintf("col-%d", n.Width)
		}
	case layout.KindCard:
		base = "card card-body"
	}
	return strings.TrimSpace(base + " " + n.Class)
}
