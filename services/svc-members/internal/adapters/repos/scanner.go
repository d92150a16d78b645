package repos

import (
	"fmt"

	"github.com/georgysavva/scany/v2/dbscan"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

type (
	// Scanner maps result rows onto db-tagged structs.
	Scanner interface {
		ScanAll(dst any, rows pgx.Rows) error
		ScanOne(dst any, rows pgx.Rows) error
		IsNotFound(err error) bool
	}

	PgxScanner struct {
		api *pgxscan.API
	}
)

// NewPgxScanner tolerates result columns no field asks for, so the window
// count can ride along on any row shape.
func NewPgxScanner() *PgxScanner {
	dbAPI, err := pgxscan.NewDBScanAPI(dbscan.WithAllowUnknownColumns(true))
	if err != nil {
		panic(fmt.Sprintf("scanner options: %v", err))
	}

	api, err := pgxscan.NewAPI(dbAPI)
	if err != nil {
		panic(fmt.Sprintf("scanner api: %v", err))
	}

	return &PgxScanner{api: api}
}

func (s *PgxScanner) ScanAll(dst any, rows pgx.Rows) error {
	return s.api.ScanAll(dst, rows)
}

// ScanOne reports zero rows as not found and more than one as an error.
func (s *PgxScanner) ScanOne(dst any, rows pgx.Rows) error {
	return s.api.ScanOne(dst, rows)
}

// IsNotFound matches the pgx.ErrNoRows that ScanOne reports for an empty
// result.
func (s *PgxScanner) IsNotFound(err error) bool {
	return pgxscan.NotFound(err)
}
