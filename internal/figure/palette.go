package figure

import "math/rand/v2"

// BoxColors：箱线图固定的五色调色板
var BoxColors = []string{"#FF851B", "#FF4136", "#3D9970", "indianred", "lightseagreen"}

// Palette：以显式种子打乱调色板的颜色源
// 约束：非并发安全；每次构建布局各自创建一个，保证同种子下结果可复现
type Palette struct {
	rng *rand.Rand
}

func NewPalette(seed uint64) *Palette {
	return &Palette{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Draw：返回 n 个颜色。n 不超过 5 时互不重复；超过时循环使用打乱后的序列
// nil Palette 返回未打乱的固定顺序
func (p *Palette) Draw(n int) []string {
	order := make([]string, len(BoxColors))
	copy(order, BoxColors)
	if p != nil {
		p.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	out := make([]string, n)
	for i := range out {
		out[i] = order[i%len(order)]
	}
	return out
}
