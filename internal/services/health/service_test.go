package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	svc := NewService(nil, func() string { return "closed" })
	got := svc.Status(context.Background())
	if !got.OK || got.Database != "memory" || got.Backend != "closed" {
		t.Fatalf("unexpected status %+v", got)
	}
}

func TestStatusReportsUnreachableDatabase(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	got := NewService(sqlDB, nil).Status(context.Background())
	if got.OK || got.Database != "unreachable" || got.Backend != "unconfigured" {
		t.Fatalf("unexpected status %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
