package dialect

import (
	"net"
	"net/url"
	"strconv"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/hyperterse/sqlgeneric/core/domain"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// ConnectionString builds the driver DSN for conn
func (c Config) ConnectionString(conn domain.ConnectionInfo) (string, error) {
	hostPort := net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port))

	switch c.Dialect {
	case PostgreSQL:
		query := url.Values{}
		query.Set("user", conn.Credentials.Username)
		query.Set("password", conn.Credentials.Password)
		u := url.URL{
			Scheme:   "postgres",
			Host:     hostPort,
			Path:     "/" + conn.Database,
			RawQuery: query.Encode(),
		}
		return u.String(), nil
	case SQLServer:
		query := url.Values{}
		query.Set("database", conn.Database)
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(conn.Credentials.Username, conn.Credentials.Password),
			Host:     hostPort,
			RawQuery: query.Encode(),
		}
		return u.String(), nil
	case Oracle:
		options := map[string]string{"SID": conn.Database}
		return go_ora.BuildUrl(conn.Host, conn.Port, "", conn.Credentials.Username, conn.Credentials.Password, options), nil
	default:
		return "", apperrors.Newf(apperrors.ErrCodeDialect, "dialect '%s' has no connection string", c.Dialect)
	}
}
