package db

import (
	"context"
	"fmt"
	"time"

	"github.com/chuyenmonc1nhuhan/nls/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

func Open(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse db config")
	}
	if cfg.MaxOpenConn > 0 {
		poolCfg.MaxConns = cfg.MaxOpenConn
	}
	if cfg.MaxConnLifeTime > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.MaxConnLifeTime) * time.Second
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "open db pool")
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping db")
	}
	return pool, nil
}

type ListCompetencyFunc func(ctx context.Context) (map[string]string, error)

func ListCompetency(pool *pgxpool.Pool) ListCompetencyFunc {
	return func(ctx context.Context) (map[string]string, error) {
		sql := `
			select code, description from tbl_nls_competency
			where is_deleted = 'N'
			order by code
			`
		rows, err := pool.Query(ctx, sql)
		if err != nil {
			return nil, errors.Wrap(err, "query tbl_nls_competency")
		}
		defer rows.Close()

		lookup := map[string]string{}
		for rows.Next() {
			var code, description string
			if err = rows.Scan(&code, &description); err != nil {
				return nil, errors.Wrap(err, "scan tbl_nls_competency")
			}
			lookup[code] = description
		}
		return lookup, errors.Wrap(rows.Err(), "iterate tbl_nls_competency")
	}
}
