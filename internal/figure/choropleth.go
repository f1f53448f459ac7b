package figure

import (
	"strings"

	"covid-dash/internal/table"
)

// RedsScale：由浅到深的红色色阶（未反转）
var RedsScale = []string{"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"}

// MapOption：地图外观选项
type MapOption func(*Figure)

func WithBackground(color string) MapOption {
	return func(f *Figure) { f.Theme.Background = color }
}

func WithBorderColor(color string) MapOption {
	return func(f *Figure) { f.Geo.BorderColor = color }
}

func WithFrame(show bool) MapOption {
	return func(f *Figure) { f.Geo.ShowFrame = show }
}

// Choropleth：每行一个区域，按 valueCol 线性设色
// 约束：区域代码为空的行直接跳过；数值缺失的区域保留但不设值；未知区域代码交由渲染端忽略
func Choropleth(t *table.Table, codeCol, valueCol, labelCol, title string, opts ...MapOption) (*Figure, error) {
	if err := checkColumns(t, codeCol, valueCol, labelCol); err != nil {
		return nil, err
	}
	f := &Figure{
		Kind:  KindChoropleth,
		Title: title,
		Theme: DarkTheme,
		Geo:   &GeoOptions{Projection: "equirectangular", BorderColor: "darkgray", BorderWidth: 0.5},
		Scale: &ColorScale{Name: "Reds", Colors: RedsScale, Title: title},
	}
	first := true
	for r := 0; r < t.Len(); r++ {
		code := strings.TrimSpace(t.String(r, codeCol))
		if code == "" {
			continue
		}
		reg := Region{Code: code, Label: t.String(r, labelCol)}
		if v, ok := t.Float(r, valueCol); ok {
			reg.Value = ptr(v)
			if first || v < f.Scale.Min {
				f.Scale.Min = v
			}
			if first || v > f.Scale.Max {
				f.Scale.Max = v
			}
			first = false
		}
		f.Regions = append(f.Regions, reg)
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}
