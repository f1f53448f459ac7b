package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"covid-dash/internal/logger"
)

// DefaultSourceURL：OWID 发布的完整总表
const DefaultSourceURL = "https://covid.ourworldindata.org/data/owid-covid-data.csv"

// Fetch：下载总表到 MasterTable()；先写临时文件，成功后改名
// 约束：非 2xx 响应视为失败，不覆盖已有文件
func (p Paths) Fetch(ctx context.Context, client *http.Client, url string) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return 0, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	dest := p.MasterTable()
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("fetch %s: %w", url, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return n, err
	}
	logger.L().Info("fetch_done", "url", url, "bytes", n, "dest", dest)
	return n, nil
}
