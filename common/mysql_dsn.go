package common

import (
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gosqlmysql "github.com/go-sql-driver/mysql"
)

// NormalizeMySQLDSN accepts either a go-sql-driver DSN or a mysql:// URL and returns a driver DSN
// with parseTime enabled. loc defaults to UTC and charset to utf8mb4 unless the caller set them.
func NormalizeMySQLDSN(dsn string) (string, error) {
	raw := strings.TrimSpace(dsn)
	if strings.HasPrefix(strings.ToLower(raw), "mysql://") {
		converted, err := mysqlURLToDSN(raw)
		if err != nil {
			return "", errors.Wrap(err, "convert mysql:// url")
		}
		raw = converted
	}

	cfg, err := gosqlmysql.ParseDSN(raw)
	if err != nil {
		return "", errors.Wrap(err, "parse MySQL DSN")
	}

	query := dsnQuery(raw)
	cfg.ParseTime = true
	if !query.Has("loc") {
		cfg.Loc = time.UTC
	}
	if !query.Has("charset") {
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params["charset"] = "utf8mb4"
	}

	return cfg.FormatDSN(), nil
}

func mysqlURLToDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(err, "parse url")
	}
	if u.Host == "" {
		return "", errors.New("mysql DSN missing host")
	}

	var b strings.Builder
	if u.User != nil {
		b.WriteString(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			b.WriteString(":" + pwd)
		}
		b.WriteString("@")
	}
	b.WriteString("tcp(" + u.Host + ")/" + strings.TrimPrefix(u.Path, "/"))
	if u.RawQuery != "" {
		b.WriteString("?" + u.RawQuery)
	}
	return b.String(), nil
}

func dsnQuery(dsn string) url.Values {
	idx := strings.IndexByte(dsn, '?')
	if idx < 0 {
		return url.Values{}
	}
	values, err := url.ParseQuery(dsn[idx+1:])
	if err != nil {
		return url.Values{}
	}
	return values
}
