package pg

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rendau/smsgw/adapters/journal"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/gwErrs"
)

type St struct {
	debug bool
	lg    logger.WarnAndError

	Con *pgxpool.Pool
}

var _ journal.Journal = (*St)(nil)

func New(debug bool, lg logger.WarnAndError, opts OptionsSt) (*St, error) {
	cfg, err := opts.getConfig()
	if err != nil {
		lg.Errorw(ErrPrefix+": Fail to create config", err)
		return nil, err
	}

	dbPool, err := pgxpool.ConnectConfig(context.Background(), cfg)
	if err != nil {
		lg.Errorw(ErrPrefix+": Fail to connect to db", err)
		return nil, err
	}

	return &St{
		debug: debug,
		lg:    lg,
		Con:   dbPool,
	}, nil
}

func (o OptionsSt) getConfig() (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(o.Dsn)
	if err != nil {
		return nil, err
	}

	o.mergeWithDefaults()

	cfg.ConnConfig.RuntimeParams["timezone"] = o.Timezone
	cfg.MaxConns = o.MaxConns
	cfg.MinConns = o.MinConns
	cfg.MaxConnLifetime = o.MaxConnLifetime
	cfg.MaxConnIdleTime = o.MaxConnIdleTime
	cfg.HealthCheckPeriod = o.HealthCheckPeriod
	cfg.LazyConnect = o.LazyConnect

	return cfg, nil
}

func (o *OptionsSt) mergeWithDefaults() {
	if o.Timezone == "" {
		o.Timezone = defaultOptions.Timezone
	}
	if o.MaxConns == 0 {
		o.MaxConns = defaultOptions.MaxConns
	}
	if o.MinConns == 0 {
		o.MinConns = defaultOptions.MinConns
	}
	if o.MaxConnLifetime == 0 {
		o.MaxConnLifetime = defaultOptions.MaxConnLifetime
	}
	if o.MaxConnIdleTime == 0 {
		o.MaxConnIdleTime = defaultOptions.MaxConnIdleTime
	}
	if o.HealthCheckPeriod == 0 {
		o.HealthCheckPeriod = defaultOptions.HealthCheckPeriod
	}
}

func (d *St) Migrate(ctx context.Context) error {
	_, err := d.Con.Exec(ctx, schemaSql)
	return d.hErr(err)
}

// Add stores the entry, a batch id seen before is silently kept as is.
func (d *St) Add(ctx context.Context, e *journal.EntrySt) error {
	sql, args := d.queryRebindNamed(`
		insert into sms_batch (batch_id, kind, subject, recipients, credit, sent, cost, unsent, created_at)
		values (${batch_id}, ${kind}, ${subject}, ${recipients}, ${credit}, ${sent}, ${cost}, ${unsent}, ${created_at})
	`, map[string]any{
		"batch_id":   e.BatchId.String(),
		"kind":       e.Kind,
		"subject":    e.Subject,
		"recipients": e.Recipients,
		"credit":     e.Credit,
		"sent":       e.Sent,
		"cost":       e.Cost,
		"unsent":     e.Unsent,
		"created_at": e.CreatedAt,
	})

	_, err := d.Con.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			d.lg.Warnw(ErrPrefix+": batch already journaled", "batch_id", e.BatchId.String())
			return nil
		}
		return d.hErr(err)
	}

	return nil
}

func (d *St) Get(ctx context.Context, batchId uuid.UUID) (*journal.EntrySt, error) {
	e, err := scanEntry(d.Con.QueryRow(ctx, `select `+entryCols+` from sms_batch where batch_id = $1`, batchId.String()))
	if err != nil {
		return nil, d.hErr(err)
	}

	return e, nil
}

func (d *St) List(ctx context.Context, limit int) ([]*journal.EntrySt, error) {
	if limit <= 0 {
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "limit"}
	}

	rows, err := d.Con.Query(ctx, `select `+entryCols+` from sms_batch order by created_at desc limit $1`, limit)
	if err != nil {
		return nil, d.hErr(err)
	}
	defer rows.Close()

	result := make([]*journal.EntrySt, 0, limit)

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, d.hErr(err)
		}
		result = append(result, e)
	}

	if err = rows.Err(); err != nil {
		return nil, d.hErr(err)
	}

	return result, nil
}

func (d *St) Close() {
	d.Con.Close()
}

func scanEntry(row pgx.Row) (*journal.EntrySt, error) {
	var batchId string

	e := &journal.EntrySt{}

	err := row.Scan(&batchId, &e.Kind, &e.Subject, &e.Recipients, &e.Credit, &e.Sent, &e.Cost, &e.Unsent, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.BatchId, err = uuid.Parse(batchId)
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (d *St) hErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return gwErrs.ObjectNotFound
	default:
		d.lg.Errorw(ErrPrefix, err)
	}

	return err
}

func (d *St) queryRebindNamed(sql string, argMap map[string]any) (string, []any) {
	resultQuery := sql
	args := make([]any, 0, len(argMap))

	for k, v := range argMap {
		if strings.Contains(resultQuery, "${"+k+"}") {
			args = append(args, v)
			resultQuery = strings.ReplaceAll(resultQuery, "${"+k+"}", "$"+strconv.Itoa(len(args)))
		}
	}

	if d.debug {
		for _, x := range queryParamRegexp.FindAllString(resultQuery, 1) {
			d.lg.Errorw(ErrPrefix+": missing param", nil, "param", x, "query", resultQuery)
		}
	}

	return resultQuery, args
}
