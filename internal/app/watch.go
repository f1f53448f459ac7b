package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"covid-dash/internal/dataset"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Watch：监听数据目录，文件变化时失效表缓存；全局表变化时防抖后重载
// 约束：ctx 取消时关闭监听器；不存在的子目录跳过，不视为错误
func (s *State) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dirs := []string{
		s.paths.DataDir,
		filepath.Join(s.paths.DataDir, dataset.CountriesDir),
		filepath.Join(s.paths.DataDir, dataset.ContinentsDir),
	}
	for _, d := range dirs {
		if _, err := os.Stat(d); err != nil {
			continue
		}
		if err := w.Add(d); err != nil {
			_ = w.Close()
			return err
		}
		s.log.Debug("watch_add", "dir", d)
	}
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(reloadDebounce, func() { _ = s.Reload() })
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				mu.Unlock()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if s.cache != nil {
					s.cache.Invalidate(ev.Name)
				}
				switch filepath.Base(ev.Name) {
				case dataset.MapFile, dataset.MasterFile:
					s.log.Info("watch_global_changed", "file", ev.Name, "op", ev.Op.String())
					reload()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Error("watch_error", "err", err)
			}
		}
	}()
	return nil
}
