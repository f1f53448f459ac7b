// 包 nav：导航控制器，根据 (URL 路径, 地图点击) 选择要返回的布局树
package nav

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"covid-dash/internal/layout"
	"covid-dash/internal/metrics"
)

// CountryPrefix：国家详情页的路径前缀
const CountryPrefix = "/country/"

// Pages：控制器依赖的页面构建能力，由 app.State 实现
type Pages interface {
	GlobalLayout() (*layout.Node, error)
	CountryLayout(name string) (*layout.Node, error)
}

type Mode int

const (
	Home Mode = iota
	Detail
)

func (m Mode) String() string {
	if m == Detail {
		return "detail"
	}
	return "home"
}

// ClickPoint / ClickEvent：地图点击负载，Text 为被点击区域的标签
type ClickPoint struct {
	Text     string `json:"text"`
	Location string `json:"location,omitempty"`
}

type ClickEvent struct {
	Points []ClickPoint `json:"points"`
}

// Click：由单个标签构造点击事件
func Click(label string) *ClickEvent {
	return &ClickEvent{Points: []ClickPoint{{Text: label}}}
}

// Label：首个点的标签；没有点时返回空串
func (e *ClickEvent) Label() string {
	if e == nil || len(e.Points) == 0 {
		return ""
	}
	return strings.TrimSpace(e.Points[0].Text)
}

var errNoLabel = errors.New("click event without region label")

// Controller：两状态状态机（Home / Detail(country)）
// 约束：同一控制器的事件串行处理；失败的导航不改变状态并重发上一次的布局树
type Controller struct {
	mu      sync.Mutex
	pages   Pages
	log     *slog.Logger
	mode    Mode
	country string
	current *layout.Node
}

// New：初始状态为 Home，并立即构建首页
func New(pages Pages, log *slog.Logger) (*Controller, error) {
	if log == nil {
		log = slog.Default()
	}
	root, err := pages.GlobalLayout()
	if err != nil {
		return nil, err
	}
	return &Controller{pages: pages, log: log, mode: Home, current: root}, nil
}

// newLazy：初始状态为 Home，首页在第一次需要时才构建
func newLazy(pages Pages, log *slog.Logger) *Controller {
	return &Controller{pages: pages, log: log, mode: Home}
}

// Navigate：处理一次 (path, click) 变化并返回要渲染的树
// 规则：
//  1. 有点击且带标签：构建该国家页面，成功则进入 Detail
//  2. 第 1 步出错：保持原状态，重发上一次的树，并记录 nav_fallback
//  3. 无点击：路径为 /country/<name> 时按第 1、2 步处理 <name>；其余路径回到 Home
func (c *Controller) Navigate(path string, click *ClickEvent) *layout.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if click != nil {
		label := click.Label()
		if label == "" {
			return c.fallback("", "click", errNoLabel)
		}
		return c.detail(label, "click")
	}
	if name, ok := CountryFromPath(path); ok {
		return c.detail(name, "path")
	}
	root, err := c.pages.GlobalLayout()
	if err != nil {
		return c.fallback("", "path", err)
	}
	c.mode, c.country, c.current = Home, "", root
	metrics.NavigationTotal.WithLabelValues("home").Inc()
	return root
}

func (c *Controller) detail(name, source string) *layout.Node {
	c.log.Debug("nav_country", "country", name, "source", source)
	root, err := c.pages.CountryLayout(name)
	if err != nil {
		return c.fallback(name, source, err)
	}
	c.mode, c.country, c.current = Detail, name, root
	metrics.NavigationTotal.WithLabelValues("detail").Inc()
	return root
}

func (c *Controller) fallback(name, source string, err error) *layout.Node {
	metrics.NavigationTotal.WithLabelValues("fallback").Inc()
	c.log.Warn("nav_fallback", "country", name, "source", source, "state", c.mode.String(), "current", c.country, "err", err)
	if c.current == nil {
		// 会话还没有发出过树，重发首页
		if root, gerr := c.pages.GlobalLayout(); gerr == nil {
			c.current = root
		}
	}
	return c.current
}

// State：当前状态与国家名（Home 时为空）
func (c *Controller) State() (Mode, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.country
}

// Current：最近一次发出的树；新会话在第一次导航前为空
func (c *Controller) Current() *layout.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CountryFromPath：解析 /country/<name>
// 约束：path 为已解码路径（如 r.URL.Path）
func CountryFromPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, CountryPrefix)
	if !ok {
		return "", false
	}
	name := strings.TrimSuffix(rest, "/")
	return name, name != ""
}

// CountryPath：国家名到规范路径
func CountryPath(name string) string { return CountryPrefix + url.PathEscape(name) }
