package merge

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// mergeTable consolidates client rows from the source inbounds into the
// target inbound. Dedup is strictly by the uuid column; the insert is a
// single INSERT...SELECT inside one transaction, so either every
// qualifying row lands or none do.
func mergeTable(db *gorm.DB, req Request) (*Result, error) {
	cols, err := tableColumns(db, "clients")
	if err != nil {
		return nil, err
	}

	hasUUID := false
	copyable := make([]string, 0, len(cols))
	for _, col := range cols {
		if col == "uuid" {
			hasUUID = true
		}
		if col == "id" || col == "inbound_id" {
			continue
		}
		copyable = append(copyable, col)
	}
	if len(copyable) == 0 {
		return nil, &SchemaError{Reason: NoClientsTable}
	}
	if !hasUUID {
		return nil, &SchemaError{Reason: NoUuidColumn}
	}

	before, err := countClients(db, req.TargetID)
	if err != nil {
		return nil, err
	}

	colList := make([]string, 0, len(copyable))
	selList := make([]string, 0, len(copyable))
	for _, col := range copyable {
		colList = append(colList, quoteIdent(col))
		selList = append(selList, "c."+quoteIdent(col))
	}

	// One row per uuid across all sources (first by rowid wins), minus
	// uuids the target already holds. One statement, one transaction.
	insert := fmt.Sprintf(
		"INSERT INTO clients (inbound_id, %s) SELECT ?, %s FROM clients c WHERE c.rowid IN (SELECT min(rowid) FROM clients WHERE inbound_id IN ? GROUP BY uuid) AND c.uuid NOT IN (SELECT uuid FROM clients WHERE inbound_id = ?)",
		strings.Join(colList, ", "), strings.Join(selList, ", "))

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Exec(insert, req.TargetID, req.SourceIDs, req.TargetID).Error
	})
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}

	after, err := countClients(db, req.TargetID)
	if err != nil {
		return nil, err
	}

	return &Result{Mode: ModeTable, Added: after - before, Before: before, After: after}, nil
}

func countClients(db *gorm.DB, inboundID int) (int, error) {
	var count int
	err := db.Raw("SELECT count(*) FROM clients WHERE inbound_id = ?", inboundID).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// quoteIdent quotes a SQL identifier. Column names come out of
// pragma_table_info, not user input, but forks add columns with
// unusual names.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
