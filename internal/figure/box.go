package figure

import (
	"math"
	"sort"

	"covid-dash/internal/table"

	"gonum.org/v1/gonum/stat"
)

// BoxPlot：每列一个箱体并标注均值；颜色从 palette 无放回抽取
// 约束：yCols 不能为空；缺列返回 *ColumnError；列中无数值时箱体 N=0 且统计量为零
func BoxPlot(t *table.Table, yCols []string, palette *Palette) (*Figure, error) {
	if len(yCols) == 0 {
		return nil, &ColumnError{Table: t.Path()}
	}
	if err := checkColumns(t, yCols...); err != nil {
		return nil, err
	}
	colors := palette.Draw(len(yCols))
	f := &Figure{Kind: KindBox, Theme: DarkTheme}
	for i, col := range yCols {
		b := summarize(t.Floats(col))
		b.Name = col
		b.Color = colors[i]
		f.Boxes = append(f.Boxes, b)
	}
	return f, nil
}

// summarize：五数概括 + 均值，围栏取 1.5 倍四分位距，围栏外的点记为离群点
func summarize(vals []float64) Box {
	var b Box
	b.N = len(vals)
	if b.N == 0 {
		return b
	}
	sort.Float64s(vals)
	b.Min = vals[0]
	b.Max = vals[len(vals)-1]
	b.Q1 = quantile(0.25, vals)
	b.Median = quantile(0.5, vals)
	b.Q3 = quantile(0.75, vals)
	b.Mean = stat.Mean(vals, nil)
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerFence, b.UpperFence = b.Max, b.Min
	for _, v := range vals {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.LowerFence {
			b.LowerFence = v
		}
		if v > b.UpperFence {
			b.UpperFence = v
		}
	}
	return b
}

// quantile：位置 h = (n-1)p 处的线性插值，vals 须已排序
// 约束：stat.Quantile 的 LinInterp 插值的是经验分布函数，奇数个点的中位数不落在中间值上，这里不用它
func quantile(p float64, vals []float64) float64 {
	h := p * float64(len(vals)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(vals) {
		return vals[len(vals)-1]
	}
	return vals[i] + (h-lo)*(vals[i+1]-vals[i])
}
