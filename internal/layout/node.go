// 包 layout：把图表与静态卡片组装为页面布局树（容器/行/列/卡片/叶子）
package layout

import "covid-dash/internal/figure"

type Kind string

const (
	KindContainer Kind = "container"
	KindDiv       Kind = "div"
	KindRow       Kind = "row"
	KindCol       Kind = "col"
	KindCard      Kind = "card"
	KindHeading   Kind = "heading"
	KindText      Kind = "text"
	KindLink      Kind = "link"
	KindBreak     Kind = "break"
	KindGraph     Kind = "graph"
)

// Node：布局树节点
// 约束：每次导航都重新构建，构建后不再修改；graph 叶子恰好持有一个 Figure
type Node struct {
	Kind     Kind           `json:"kind"`
	ID       string         `json:"id,omitempty"`
	Class    string         `json:"class,omitempty"`
	Width    int            `json:"width,omitempty"`
	Level    int            `json:"level,omitempty"`
	Align    string         `json:"align,omitempty"`
	Text     string         `json:"text,omitempty"`
	Href     string         `json:"href,omitempty"`
	Figure   *figure.Figure `json:"figure,omitempty"`
	Children []*Node        `json:"children,omitempty"`
}

func Container(children ...*Node) *Node {
	return &Node{Kind: KindContainer, Class: "container-fluid", Children: children}
}

func Div(class string, children ...*Node) *Node {
	return &Node{Kind: KindDiv, Class: class, Children: children}
}

func Row(class string, cols ...*Node) *Node {
	return &Node{Kind: KindRow, Class: class, Children: cols}
}

// Col：12 栅格中的一列
func Col(width int, children ...*Node) *Node {
	return &Node{Kind: KindCol, Width: width, Children: children}
}

func Card(class string, children ...*Node) *Node {
	return &Node{Kind: KindCard, Class: class, Children: children}
}

func Heading(level int, text string) *Node {
	return &Node{Kind: KindHeading, Level: level, Text: text}
}

func Text(text string) *Node { return &Node{Kind: KindText, Text: text} }

func Link(text, href string) *Node { return &Node{Kind: KindLink, Text: text, Href: href} }

func Break() *Node { return &Node{Kind: KindBreak} }

func Graph(id string, f *figure.Figure) *Node {
	return &Node{Kind: KindGraph, ID: id, Figure: f}
}

// Section：页面中的分节标题（上下留白）
func Section(level int, text, align string) *Node {
	h := Heading(level, text)
	h.Align = align
	return Div("", Break(), h, Break(), Break())
}

// Walk：先序遍历
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Graphs：按出现顺序返回全部图表叶子
func (n *Node) Graphs() []*Node {
	var out []*Node
	n.Walk(func(x *Node) {
		if x.Kind == KindGraph {
			out = append(out, x)
		}
	})
	return out
}

// CountFigures：统计指定类型的图表叶子数量
func (n *Node) CountFigures(k figure.Kind) int {
	c := 0
	for _, g := range n.Graphs() {
		if g.Figure != nil && g.Figure.Kind == k {
			c++
		}
	}
	return c
}

// Find：按 ID 查找节点
func (n *Node) Find(id string) *Node {
	var hit *Node
	n.Walk(func(x *Node) {
		if hit == nil && x.ID == id {
			hit = x
		}
	})
	return hit
}
