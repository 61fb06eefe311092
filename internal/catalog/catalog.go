// Package catalog holds the static registry of the OMOP CDM clinical
// tables in the de-identified extract, plus live column introspection
// routed through the gated query pipeline.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"omopgate/internal/domain"
)

// Table describes one clinical table available to callers.
type Table struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OMOPDocs    string `json:"omop_docs"`
	Notes       string `json:"notes"`
}

const cdmDocsBase = "https://ohdsi.github.io/CommonDataModel/cdm54.html"

// tables registers the seven core clinical tables. Column details are
// introspected live so they never drift from the actual store.
var tables = map[string]Table{
	"person": {
		Name:        "person",
		Description: "Patient demographics (de-identified)",
		OMOPDocs:    cdmDocsBase + "#person",
		Notes:       "De-identified patient information. Patient IDs are synthetic.",
	},
	"visit_occurrence": {
		Name:        "visit_occurrence",
		Description: "ICU admission records",
		OMOPDocs:    cdmDocsBase + "#visit_occurrence",
		Notes:       "Hospital/ICU visits. Dates are shifted for de-identification.",
	},
	"death": {
		Name:        "death",
		Description: "Mortality records",
		OMOPDocs:    cdmDocsBase + "#death",
		Notes:       "Death records. Dates shifted for de-identification.",
	},
	"condition_occurrence": {
		Name:        "condition_occurrence",
		Description: "Diagnoses and clinical conditions",
		OMOPDocs:    cdmDocsBase + "#condition_occurrence",
		Notes:       "ICD-coded diagnoses and clinical conditions.",
	},
	"drug_exposure": {
		Name:        "drug_exposure",
		Description: "Medication administration records",
		OMOPDocs:    cdmDocsBase + "#drug_exposure",
		Notes:       "Medication records including dosing information.",
	},
	"procedure_occurrence": {
		Name:        "procedure_occurrence",
		Description: "Clinical procedures performed",
		OMOPDocs:    cdmDocsBase + "#procedure_occurrence",
		Notes:       "Interventions, surgeries, and other procedures.",
	},
	"measurement": {
		Name:        "measurement",
		Description: "Clinical measurements and observations",
		OMOPDocs:    cdmDocsBase + "#measurement",
		Notes:       "Vital signs and lab values at ICU resolution.",
	},
}

// queryRunner is the gated pipeline the introspection query runs through.
// Schema queries get no special treatment: they face the same policies as
// any analytic query.
type queryRunner interface {
	Execute(ctx context.Context, sqlQuery string) (*domain.Result, error)
}

// Service answers table registry and column introspection requests.
type Service struct {
	runner queryRunner
}

// NewService creates a catalog Service over the gated query pipeline.
func NewService(runner queryRunner) *Service {
	return &Service{runner: runner}
}

// ListTables returns all registered tables sorted by name.
func (s *Service) ListTables() []Table {
	out := make([]Table, 0, len(tables))
	for _, t := range tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupTable returns the registry entry for name.
func (s *Service) LookupTable(name string) (Table, error) {
	t, ok := tables[name]
	if !ok {
		return Table{}, domain.ErrNotFound("unknown table %q", name)
	}
	return t, nil
}

// TableColumns introspects the live column list of a registered table via
// information_schema, through the gated pipeline.
func (s *Service) TableColumns(ctx context.Context, name string) (*domain.Result, error) {
	t, err := s.LookupTable(name)
	if err != nil {
		return nil, err
	}

	introspection := fmt.Sprintf(
		"SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_name = '%s' ORDER BY ordinal_position LIMIT 100",
		t.Name)
	return s.runner.Execute(ctx, introspection)
}
