package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"signal_bot/pkg/db"
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS watchlist (
	asset    text PRIMARY KEY,
	position int  NOT NULL
)`
	selectAll = `SELECT asset FROM watchlist ORDER BY position`
	deleteAll = `DELETE FROM watchlist`
	insertOne = `INSERT INTO watchlist (asset, position) VALUES ($1, $2)`
)

type Watchlist struct {
	db db.TxManager
}

func NewWatchlist(db db.TxManager) *Watchlist {
	return &Watchlist{db: db}
}

// Migrate создаёт таблицу, если её нет.
func (w *Watchlist) Migrate(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Watchlist.Migrate: %w", err)
		}
	}()
	_, err = w.db.Conn().Exec(ctx, createTable)
	return err
}

// Load in db
func (w *Watchlist) Load(ctx context.Context) (assets []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Watchlist.Load: %w", err)
		}
	}()

	rows, err := w.db.Conn().Query(ctx, selectAll)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Save заменяет список целиком в одной транзакции.
func (w *Watchlist) Save(ctx context.Context, assets []string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Watchlist.Save: %w", err)
		}
	}()

	return w.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			if _, err := tx.Exec(ctxTx, deleteAll); err != nil {
				return err
			}
			batch := &pgx.Batch{}
			for i, a := range assets {
				batch.Queue(insertOne, a, i)
			}
			return tx.SendBatch(ctxTx, batch).Close()
		})
}
