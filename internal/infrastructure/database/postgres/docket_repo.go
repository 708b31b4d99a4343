package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

// filingDateSentinelYear marks an unset filing date in the docket schema.
const filingDateSentinelYear = 1899

// filingDateLayout is the compact date format invoice spreadsheets use.
const filingDateLayout = "20060102"

// DocketRepository implements docket.Repository over the docket schema.
type DocketRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewDocketRepository returns a repository reading from conn.
func NewDocketRepository(conn *Connection, log logging.Logger) *DocketRepository {
	return &DocketRepository{db: conn.DB(), logger: log}
}

func (r *DocketRepository) LoadTechnologies(ctx context.Context) ([]*docket.Technology, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT primarykey, techid, name FROM technol ORDER BY primarykey`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "query technologies")
	}
	defer rows.Close()

	var technologies []*docket.Technology
	for rows.Next() {
		var id int
		var caseCode, title sql.NullString
		if err := rows.Scan(&id, &caseCode, &title); err != nil {
			return nil, errors.Wrap(err, errors.CodeDocketScan, "scan technology")
		}
		technologies = append(technologies, &docket.Technology{
			ID:    id,
			Case:  trimmed(caseCode),
			Title: trimmed(title),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "iterate technologies")
	}
	return technologies, nil
}

// LoadPatents drops records with an empty docket reference or serial number:
// they cannot be matched to invoice lines or named on the accounting side.
func (r *DocketRepository) LoadPatents(ctx context.Context) ([]*docket.Patent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT primarykey, technolfk, lawfirmfk, name, legalrefno,
		        filedate, serialno, patstatfk, papptypefk, countryfk
		 FROM patents ORDER BY primarykey`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "query patents")
	}
	defer rows.Close()

	var patents []*docket.Patent
	skipped := 0
	for rows.Next() {
		var id, technologyID, lawFirmID, statusID, typeID, countryID int
		var title, docketRef, serial sql.NullString
		var filed sql.NullTime
		if err := rows.Scan(&id, &technologyID, &lawFirmID, &title, &docketRef,
			&filed, &serial, &statusID, &typeID, &countryID); err != nil {
			return nil, errors.Wrap(err, errors.CodeDocketScan, "scan patent")
		}
		p := &docket.Patent{
			ID:           id,
			TechnologyID: technologyID,
			LawFirmID:    lawFirmID,
			Title:        trimmed(title),
			Docket:       trimmed(docketRef),
			Serial:       trimmed(serial),
			StatusID:     statusID,
			TypeID:       typeID,
			CountryID:    countryID,
		}
		if filed.Valid && filed.Time.Year() != filingDateSentinelYear {
			p.FilingDate = filed.Time.Format(filingDateLayout)
		}
		if p.Docket == "" || p.Serial == "" {
			skipped++
			continue
		}
		patents = append(patents, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "iterate patents")
	}
	if skipped > 0 {
		r.logger.Debug("skipped patents without docket reference or serial",
			logging.Int("count", skipped))
	}
	return patents, nil
}

func (r *DocketRepository) LoadPatentTypes(ctx context.Context) ([]*docket.PatentType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT primarykey, name FROM papptype ORDER BY primarykey`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "query patent types")
	}
	defer rows.Close()

	var types []*docket.PatentType
	for rows.Next() {
		var id int
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, errors.Wrap(err, errors.CodeDocketScan, "scan patent type")
		}
		types = append(types, &docket.PatentType{ID: id, Name: trimmed(name)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "iterate patent types")
	}
	return types, nil
}

func (r *DocketRepository) LoadLawFirms(ctx context.Context) ([]*docket.LawFirm, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT primarykey, name FROM company WHERE type = 'L' ORDER BY primarykey`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "query law firms")
	}
	defer rows.Close()

	var firms []*docket.LawFirm
	for rows.Next() {
		var id int
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, errors.Wrap(err, errors.CodeDocketScan, "scan law firm")
		}
		firms = append(firms, &docket.LawFirm{ID: id, Name: trimmed(name)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "iterate law firms")
	}
	return firms, nil
}

func (r *DocketRepository) LoadCountries(ctx context.Context) ([]*docket.Country, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT primarykey, name FROM country ORDER BY primarykey`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "query countries")
	}
	defer rows.Close()

	var countries []*docket.Country
	for rows.Next() {
		var id int
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, errors.Wrap(err, errors.CodeDocketScan, "scan country")
		}
		countries = append(countries, &docket.Country{ID: id, Name: trimmed(name)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDocketQuery, "iterate countries")
	}
	return countries, nil
}

func trimmed(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return strings.TrimSpace(s.String)
}
