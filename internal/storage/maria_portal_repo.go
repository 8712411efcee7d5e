package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/annel0/funnyblocks/internal/portal"
	"github.com/annel0/funnyblocks/internal/vec"
	_ "github.com/go-sql-driver/mysql"
)

// MariaPortalRepo реализует PortalRepo для базы данных MariaDB/MySQL.
// Использует таблицу portal_pairs: одна строка на мир, NULL - портал цвета не активен.
type MariaPortalRepo struct {
	db *sql.DB
}

// NewMariaPortalRepo создает репозиторий и таблицу, если она не существует.
// dsn - строка подключения (user:pass@tcp(host:port)/dbname)
func NewMariaPortalRepo(ctx context.Context, dsn string) (*MariaPortalRepo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo := &MariaPortalRepo{db: db}
	if err := repo.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}
	return repo, nil
}

func (r *MariaPortalRepo) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS portal_pairs (
			world      VARCHAR(64) PRIMARY KEY,
			blue_x     INT         NULL,
			blue_y     INT         NULL,
			blue_z     INT         NULL,
			orange_x   INT         NULL,
			orange_y   INT         NULL,
			orange_z   INT         NULL,
			updated_at TIMESTAMP   DEFAULT CURRENT_TIMESTAMP
			           ON UPDATE   CURRENT_TIMESTAMP
		) ENGINE=InnoDB
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ошибка создания таблицы portal_pairs: %w", err)
	}
	return nil
}

func nullable(p *vec.Vec3) (x, y, z sql.NullInt64) {
	if p == nil {
		return
	}
	return sql.NullInt64{Int64: int64(p.X), Valid: true},
		sql.NullInt64{Int64: int64(p.Y), Valid: true},
		sql.NullInt64{Int64: int64(p.Z), Valid: true}
}

func fromNullable(x, y, z sql.NullInt64) *vec.Vec3 {
	if !x.Valid || !y.Valid || !z.Valid {
		return nil
	}
	return &vec.Vec3{X: int(x.Int64), Y: int(y.Int64), Z: int(z.Int64)}
}

// Save использует INSERT ... ON DUPLICATE KEY UPDATE
func (r *MariaPortalRepo) Save(ctx context.Context, world string, state portal.PairState) error {
	if err := validateWorld(world); err != nil {
		return err
	}
	bx, by, bz := nullable(state.Blue)
	ox, oy, oz := nullable(state.Orange)

	query := `
		INSERT INTO portal_pairs (world, blue_x, blue_y, blue_z, orange_x, orange_y, orange_z)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			blue_x = VALUES(blue_x), blue_y = VALUES(blue_y), blue_z = VALUES(blue_z),
			orange_x = VALUES(orange_x), orange_y = VALUES(orange_y), orange_z = VALUES(orange_z),
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, world, bx, by, bz, ox, oy, oz); err != nil {
		return fmt.Errorf("ошибка сохранения порталов мира %s: %w", world, err)
	}
	return nil
}

func (r *MariaPortalRepo) Load(ctx context.Context, world string) (portal.PairState, bool, error) {
	if err := validateWorld(world); err != nil {
		return portal.PairState{}, false, err
	}

	query := `SELECT blue_x, blue_y, blue_z, orange_x, orange_y, orange_z FROM portal_pairs WHERE world = ?`
	var bx, by, bz, ox, oy, oz sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, world).Scan(&bx, &by, &bz, &ox, &oy, &oz)
	if errors.Is(err, sql.ErrNoRows) {
		return portal.PairState{}, false, nil
	}
	if err != nil {
		return portal.PairState{}, false, fmt.Errorf("ошибка загрузки порталов мира %s: %w", world, err)
	}

	return portal.PairState{
		Blue:   fromNullable(bx, by, bz),
		Orange: fromNullable(ox, oy, oz),
	}, true, nil
}

func (r *MariaPortalRepo) Delete(ctx context.Context, world string) error {
	if err := validateWorld(world); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM portal_pairs WHERE world = ?`, world)
	if err != nil {
		return fmt.Errorf("ошибка удаления порталов мира %s: %w", world, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества затронутых строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("мир %s: %w", world, ErrStateNotFound)
	}
	return nil
}

// Close закрывает соединение с базой данных
func (r *MariaPortalRepo) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
