package models

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Column report usage:

	blog generate report

For every model the report lists columns that exist in the database but have no struct
field, and struct fields whose column is missing from the database. A table that does
not exist yet is reported as such; run `blog migrate up` to create it.

	blog generate queries --out ./generated

writes gorm/gen typed query helpers for the same models.
*/

// All returns one zero value of every persisted model, parents before children
func All() []any {
	return []any{&Post{}, &Tag{}, &PostTag{}}
}

// GenerateQueries writes typed query helpers for every model into outPath
func GenerateQueries(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Post{}, Tag{}, PostTag{})

	log.Info().Str("out", outPath).Msg("Generating query helpers")
	g.Execute()
	log.Info().Msg("Query generation complete")
	return nil
}

// TableReport compares one model against the table that backs it
type TableReport struct {
	Table string
	// Exists is false when the table has not been created yet
	Exists bool
	// ExtraColumns exist in the database but not in the model
	ExtraColumns []string
	// MissingColumns exist in the model but not in the database
	MissingColumns []string
}

func (r TableReport) Mismatches() int {
	return len(r.ExtraColumns) + len(r.MissingColumns)
}

// ColumnReport inspects every model through the gorm migrator, so it works on any dialect
func ColumnReport(db *gorm.DB) ([]TableReport, error) {
	var reports []TableReport
	for _, model := range All() {
		report, err := columnReport(db, model)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func columnReport(db *gorm.DB, model any) (TableReport, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return TableReport{}, fmt.Errorf("error parsing model %T: %w", model, err)
	}
	report := TableReport{Table: stmt.Schema.Table}

	migrator := db.Migrator()
	if !migrator.HasTable(model) {
		return report, nil
	}
	report.Exists = true

	columnTypes, err := migrator.ColumnTypes(model)
	if err != nil {
		return TableReport{}, fmt.Errorf("error reading columns of %s: %w", report.Table, err)
	}

	dbColumns := make(map[string]bool, len(columnTypes))
	for _, col := range columnTypes {
		dbColumns[col.Name()] = true
	}
	modelColumns := make(map[string]bool, len(stmt.Schema.DBNames))
	for _, name := range stmt.Schema.DBNames {
		modelColumns[name] = true
	}

	report.ExtraColumns = difference(dbColumns, modelColumns)
	report.MissingColumns = difference(modelColumns, dbColumns)
	return report, nil
}

// difference returns the sorted keys of a that are absent from b
func difference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
