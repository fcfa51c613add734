package repository

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// Options is the structured connection target handed to a Driver.
type Options struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	Params         url.Values
	ConnectTimeout time.Duration
}

// addr joins host and port, falling back to defaultPort.
func (o Options) addr(defaultPort int) string {
	port := o.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(o.Host, strconv.Itoa(port))
}

// Driver adapts one database/sql driver to the store.
type Driver interface {
	// Name is the DB_DRIVER value selecting this adapter.
	Name() string
	// Open builds a handle for opts without dialing.
	Open(opts Options) (*sql.DB, error)
	// Dialect is the goose dialect used for migrations.
	Dialect() goose.Dialect
	// Rebind rewrites ? placeholders into the driver's native form.
	Rebind(query string) string
}

// LookupDriver returns the adapter registered under name.
func LookupDriver(name string) (Driver, error) {
	switch name {
	case "mysql":
		return mysqlDriver{}, nil
	case "pgx":
		return pgxDriver{}, nil
	case "postgres":
		return pqDriver{}, nil
	case "sqlite3":
		return sqliteDriver{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}

// mysqlDriver uses go-sql-driver/mysql. This is the store the tool was
// originally deployed against.
type mysqlDriver struct{}

func (mysqlDriver) Name() string               { return "mysql" }
func (mysqlDriver) Dialect() goose.Dialect     { return goose.DialectMySQL }
func (mysqlDriver) Rebind(query string) string { return query }

func (mysqlDriver) Open(o Options) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Password
	cfg.Net = "tcp"
	cfg.Addr = o.addr(3306)
	cfg.DBName = o.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Timeout = o.ConnectTimeout

	if len(o.Params) > 0 {
		cfg.Params = make(map[string]string, len(o.Params))
		for k := range o.Params {
			cfg.Params[k] = o.Params.Get(k)
		}
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql config: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// pgxDriver uses jackc/pgx through its database/sql adapter.
type pgxDriver struct{}

func (pgxDriver) Name() string               { return "pgx" }
func (pgxDriver) Dialect() goose.Dialect     { return goose.DialectPostgres }
func (pgxDriver) Rebind(query string) string { return rebindDollar(query) }

func (pgxDriver) Open(o Options) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(postgresURL(o))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres config: %w", err)
	}
	return stdlib.OpenDB(*cfg), nil
}

// pqDriver uses lib/pq for deployments that pin the pure keyword DSN driver.
type pqDriver struct{}

func (pqDriver) Name() string               { return "postgres" }
func (pqDriver) Dialect() goose.Dialect     { return goose.DialectPostgres }
func (pqDriver) Rebind(query string) string { return rebindDollar(query) }

func (pqDriver) Open(o Options) (*sql.DB, error) {
	connector, err := pq.NewConnector(keywordDSN(o))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres config: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// sqliteDriver uses mattn/go-sqlite3. Database is a file path or a
// file: URI; host, port and credentials are ignored.
type sqliteDriver struct{}

func (sqliteDriver) Name() string               { return "sqlite3" }
func (sqliteDriver) Dialect() goose.Dialect     { return goose.DialectSQLite3 }
func (sqliteDriver) Rebind(query string) string { return query }

func (sqliteDriver) Open(o Options) (*sql.DB, error) {
	if o.Database == "" {
		return nil, fmt.Errorf("sqlite3 requires a database path")
	}
	dsn := o.Database
	if len(o.Params) > 0 {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + o.Params.Encode()
	}
	return sql.Open("sqlite3", dsn)
}

func postgresURL(o Options) string {
	q := url.Values{}
	for k, vs := range o.Params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if o.ConnectTimeout > 0 && !q.Has("connect_timeout") {
		q.Set("connect_timeout", strconv.Itoa(timeoutSeconds(o.ConnectTimeout)))
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     o.addr(5432),
		Path:     "/" + o.Database,
		RawQuery: q.Encode(),
	}
	if o.User != "" {
		u.User = url.UserPassword(o.User, o.Password)
	}
	return u.String()
}

func keywordDSN(o Options) string {
	pairs := map[string]string{
		"host":   o.Host,
		"dbname": o.Database,
	}
	port := o.Port
	if port == 0 {
		port = 5432
	}
	pairs["port"] = strconv.Itoa(port)
	if o.User != "" {
		pairs["user"] = o.User
	}
	if o.Password != "" {
		pairs["password"] = o.Password
	}
	if o.ConnectTimeout > 0 {
		pairs["connect_timeout"] = strconv.Itoa(timeoutSeconds(o.ConnectTimeout))
	}
	if _, ok := o.Params["sslmode"]; !ok {
		pairs["sslmode"] = "disable"
	}
	for k := range o.Params {
		pairs[k] = o.Params.Get(k)
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+quoteKeywordValue(pairs[k]))
	}
	return strings.Join(parts, " ")
}

// quoteKeywordValue quotes a libpq keyword value when it is empty or
// contains spaces, quotes or backslashes.
func quoteKeywordValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func timeoutSeconds(d time.Duration) int {
	s := int(d / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}

// rebindDollar turns "a = ? AND b = ?" into "a = $1 AND b = $2".
// Queries in this package never carry literal question marks.
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
