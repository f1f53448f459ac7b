package figure

import "covid-dash/internal/table"

const (
	monthlyTicks  = "M1"
	monthYearTick = "%b\n%Y"
	dayHover      = "%B %d, %Y"
)

// LineChart：每个 Y 列一条折线，按给定顺序
// 约束：yCols 不能为空；任一列缺失返回 *ColumnError；零行不是错误（得到空折线）
func LineChart(t *table.Table, xCol string, yCols []string) (*Figure, error) {
	if len(yCols) == 0 {
		return nil, &ColumnError{Table: t.Path()}
	}
	if err := checkColumns(t, append([]string{xCol}, yCols...)...); err != nil {
		return nil, err
	}
	f := &Figure{
		Kind:  KindLine,
		Theme: DarkTheme,
		XAxis: &TimeAxis{Column: xCol, TickInterval: monthlyTicks, TickFormat: monthYearTick, HoverFormat: dayHover},
	}
	for _, y := range yCols {
		s := Series{Name: y, Points: make([]Point, 0, t.Len())}
		for r := 0; r < t.Len(); r++ {
			p := Point{X: t.String(r, xCol)}
			if v, ok := t.Float(r, y); ok {
				p.Y = ptr(v)
			}
			s.Points = append(s.Points, p)
		}
		f.Series = append(f.Series, s)
	}
	return f, nil
}
