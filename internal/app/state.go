// 包 app：应用状态对象，启动时构建并以句柄形式传入导航控制器与路由
// 背景：首页依赖的两张全局表集中在此持有，不再作为包级全局变量；重载时整体原子替换
package app

import (
	"log/slog"
	"sync/atomic"
	"time"

	"covid-dash/internal/dataset"
	"covid-dash/internal/figure"
	"covid-dash/internal/layout"
	"covid-dash/internal/metrics"
	"covid-dash/internal/table"
)

// Snapshot：某一时刻加载的全局表及其派生摘要
type Snapshot struct {
	Global   layout.GlobalData
	Summary  layout.Summary
	Version  uint64
	LoadedAt time.Time
}

// State：实现导航控制器所需的 GlobalLayout / CountryLayout
type State struct {
	paths     dataset.Paths
	loader    table.Loader
	cache     *table.CachingLoader
	assembler *layout.Assembler
	log       *slog.Logger

	snap    atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// Options：构建状态对象的参数
type Options struct {
	Paths dataset.Paths
	// Loader 为空时使用不缓存的 FileLoader
	Loader table.Loader
	Seed   uint64
	Log    *slog.Logger
}

// New：加载全局表并校验首页可以构建
// 异常：任何加载或构建失败都返回错误，由启动流程视为致命
func New(o Options) (*State, error) {
	if o.Loader == nil {
		o.Loader = table.FileLoader{}
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	s := &State{
		paths:     o.Paths,
		loader:    o.Loader,
		assembler: &layout.Assembler{Loader: o.Loader, Paths: o.Paths, Seed: o.Seed},
		log:       o.Log,
	}
	if c, ok := o.Loader.(*table.CachingLoader); ok {
		s.cache = c
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload：重新读取全局表；失败时保留旧快照
func (s *State) Reload() error {
	snap, err := s.load()
	if err != nil {
		metrics.DataReloadsTotal.WithLabelValues("error").Inc()
		s.log.Error("data_reload_error", "err", err)
		return err
	}
	s.snap.Store(snap)
	metrics.DataReloadsTotal.WithLabelValues("ok").Inc()
	s.log.Info("data_reload_ok", "version", snap.Version, "map_rows", snap.Global.Map.Len(), "world_rows", snap.Global.World.Len())
	return nil
}

func (s *State) load() (*Snapshot, error) {
	if s.cache != nil {
		s.cache.Invalidate(s.paths.MapTable())
		s.cache.Invalidate(s.paths.MasterTable())
	}
	mapT, err := s.loader.Load(s.paths.MapTable())
	if err != nil {
		return nil, err
	}
	master, err := s.loader.Load(s.paths.MasterTable())
	if err != nil {
		return nil, err
	}
	world, ok := master.Filter("location", dataset.WorldLocation)
	if !ok {
		return nil, &figure.ColumnError{Table: master.Path(), Columns: []string{"location"}}
	}
	g := layout.GlobalData{Map: mapT, World: world}
	// 提前构建一次首页，缺列等问题在加载阶段暴露而不是在请求阶段
	if _, err := layout.Global(g); err != nil {
		return nil, err
	}
	sum, err := layout.Summarize(world)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Global: g, Summary: sum, Version: s.version.Add(1), LoadedAt: time.Now()}, nil
}

func (s *State) Snapshot() *Snapshot { return s.snap.Load() }

func (s *State) Version() uint64 { return s.Snapshot().Version }

func (s *State) Paths() dataset.Paths { return s.paths }

func (s *State) GlobalLayout() (*layout.Node, error) {
	return layout.Global(s.Snapshot().Global)
}

func (s *State) CountryLayout(name string) (*layout.Node, error) {
	return s.assembler.Country(name)
}

// Countries：可供点击的国家列表
func (s *State) Countries() ([]string, error) { return s.paths.Countries() }
