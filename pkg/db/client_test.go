package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
)

type txProbe struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"column:name"`
}

func (txProbe) TableName() string { return "tx_probes" }

func newTestClient(t *testing.T) *Client {
	t.Helper()

	dsn := "file:db_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&txProbe{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewFromConn(conn)
}

func countProbes(t *testing.T, client *Client) int64 {
	t.Helper()
	var n int64
	if err := client.DB().Model(&txProbe{}).Count(&n).Error; err != nil {
		t.Fatalf("counting: %v", err)
	}
	return n
}

func TestWithTxCommits(t *testing.T) {
	client := newTestClient(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&txProbe{Name: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if got := countProbes(t, client); got != 1 {
		t.Fatalf("expected 1 row after commit, got %d", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newTestClient(t)
	boom := errors.New("boom")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&txProbe{Name: "discarded"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := countProbes(t, client); got != 0 {
		t.Fatalf("expected rollback, got %d rows", got)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client := newTestClient(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&txProbe{Name: "discarded"}).Error; err != nil {
				return err
			}
			panic("mid-transaction")
		})
	}()

	if got := countProbes(t, client); got != 0 {
		t.Fatalf("expected rollback after panic, got %d rows", got)
	}
}

func TestWrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want pkgerrors.Code
	}{
		{"nil", nil, ""},
		{"lock timeout pg", &pgconn.PgError{Code: "55P03"}, pkgerrors.CodeOperationTimeout},
		{"deadline", context.DeadlineExceeded, pkgerrors.CodeOperationTimeout},
		{"bad conn", driver.ErrBadConn, pkgerrors.CodeStoreUnavailable},
		{"dial refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, pkgerrors.CodeStoreUnavailable},
		{"foreign key pg", &pgconn.PgError{Code: "23503"}, pkgerrors.CodeReferentialConflict},
		{"foreign key sqlite", errors.New("FOREIGN KEY constraint failed"), pkgerrors.CodeReferentialConflict},
		{"other", errors.New("connection reset"), pkgerrors.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := WrapError(tc.err, "saving item")
			if tc.err == nil {
				if wrapped != nil {
					t.Fatalf("expected nil, got %v", wrapped)
				}
				return
			}
			var typed *pkgerrors.Error
			if !errors.As(wrapped, &typed) {
				t.Fatalf("expected typed error, got %T", wrapped)
			}
			if typed.Code() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, typed.Code())
			}
			if !errors.Is(wrapped, tc.err) {
				t.Fatal("expected cause to be preserved")
			}
		})
	}
}

func TestWrapErrorWrapsDeep(t *testing.T) {
	cause := &pgconn.PgError{Code: "55P03"}
	err := WrapError(fmt.Errorf("query: %w", cause), "locking row")

	var typed *pkgerrors.Error
	if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeOperationTimeout {
		t.Fatalf("expected operation timeout, got %v", err)
	}
}
