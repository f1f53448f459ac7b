// 包 geo：访客国家定位（MaxMind GeoLite2/GeoIP2 Country 或 City 库）
// 背景：首页可提示访客所在国家的详情页链接；数据库文件可选，未配置时定位接口返回 503
package geo

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

var (
	ErrDisabled = errors.New("geoip database not configured")
	ErrBadIP    = errors.New("invalid ip address")
	ErrNotFound = errors.New("ip address not in database")
)

// Result：定位结果；Country 为英文名称，与数据集的 location 列对齐
type Result struct {
	IP      string `json:"ip"`
	ISOCode string `json:"iso_code"`
	Country string `json:"country"`
}

// Locator：nil *Locator 表示未启用
type Locator struct {
	r *geoip2.Reader
}

// Open：打开 mmdb 文件；文件类型需包含国家信息
func Open(path string) (*Locator, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip %s: %w", path, err)
	}
	md := r.Metadata()
	if !strings.Contains(md.DatabaseType, "Country") && !strings.Contains(md.DatabaseType, "City") {
		r.Close()
		return nil, fmt.Errorf("open geoip %s: unsupported database type %q", path, md.DatabaseType)
	}
	return &Locator{r: r}, nil
}

func (l *Locator) Close() error {
	if l == nil {
		return nil
	}
	return l.r.Close()
}

// Metadata：数据库描述信息，启动日志使用
func (l *Locator) Metadata() maxminddb.Metadata {
	if l == nil {
		return maxminddb.Metadata{}
	}
	return l.r.Metadata()
}

// Country：查询 IP 所在国家
// 异常：未启用返回 ErrDisabled；IP 非法返回 ErrBadIP；库中无记录返回 ErrNotFound
func (l *Locator) Country(ip string) (Result, error) {
	res := Result{IP: ip}
	if l == nil {
		return res, ErrDisabled
	}
	addr := net.ParseIP(strings.TrimSpace(ip))
	if addr == nil {
		return res, ErrBadIP
	}
	rec, err := l.r.Country(addr)
	if err != nil {
		return res, fmt.Errorf("geoip lookup %s: %w", ip, err)
	}
	if rec.Country.IsoCode == "" {
		return res, ErrNotFound
	}
	res.ISOCode = rec.Country.IsoCode
	res.Country = rec.Country.Names["en"]
	return res, nil
}
