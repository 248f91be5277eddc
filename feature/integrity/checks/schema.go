package checks

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"boardgame-sync/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of a schema check over one or more models.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists what one table lacks compared to its model.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	MissingIndexes []string `json:"missing_indexes"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema compares the database against gorm models. Every column named in
// a gorm tag must exist, and every unique index must exist since the match
// store relies on them to keep matches one to one.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range models {
		typ := reflect.TypeOf(model)
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		tabler, ok := reflect.New(typ).Interface().(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", typ.Name())
		}
		table := tabler.TableName()

		columns, indexes := modelSchema(typ)
		missing, err := database.MissingColumns(db, table, columns)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tbl := TableReport{
			MissingColumns: missing,
			MissingIndexes: []string{},
			Status:         "ok",
		}
		for _, idx := range indexes {
			if !db.Migrator().HasIndex(reflect.New(typ).Interface(), idx) {
				tbl.MissingIndexes = append(tbl.MissingIndexes, idx)
			}
		}
		if len(tbl.MissingColumns) > 0 || len(tbl.MissingIndexes) > 0 {
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

// modelSchema reads column names and unique index names from gorm tags.
func modelSchema(typ reflect.Type) (columns, uniqueIndexes []string) {
	seen := map[string]struct{}{}
	for i := 0; i < typ.NumField(); i++ {
		for _, part := range strings.Split(typ.Field(i).Tag.Get("gorm"), ";") {
			switch {
			case strings.HasPrefix(part, "column:"):
				columns = append(columns, strings.TrimPrefix(part, "column:"))
			case strings.HasPrefix(part, "uniqueIndex:"):
				name, _, _ := strings.Cut(strings.TrimPrefix(part, "uniqueIndex:"), ",")
				if _, ok := seen[name]; !ok {
					seen[name] = struct{}{}
					uniqueIndexes = append(uniqueIndexes, name)
				}
			}
		}
	}
	sort.Strings(uniqueIndexes)
	return columns, uniqueIndexes
}
