package pg

import (
	"regexp"
	"time"
)

const (
	ErrPrefix = "pg-error"

	uniqueViolationCode = "23505"
)

type OptionsSt struct {
	Dsn               string
	Timezone          string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	LazyConnect       bool
}

var defaultOptions = OptionsSt{
	Timezone:          "Asia/Taipei",
	MaxConns:          10,
	MinConns:          1,
	MaxConnLifetime:   30 * time.Minute,
	MaxConnIdleTime:   15 * time.Minute,
	HealthCheckPeriod: 20 * time.Second,
}

var (
	queryParamRegexp = regexp.MustCompile(`(?si)\$\{[^}]+\}`)
)

const schemaSql = `
create table if not exists sms_batch (
	batch_id   uuid primary key,
	kind       text not null,
	subject    text not null default '',
	recipients int not null default 0,
	credit     double precision not null,
	sent       int not null default 0,
	cost       double precision not null default 0,
	unsent     int not null default 0,
	created_at timestamptz not null default now()
)`

const entryCols = `batch_id::text, kind, subject, recipients, credit, sent, cost, unsent, created_at`
