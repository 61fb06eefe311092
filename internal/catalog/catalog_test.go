package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omopgate/internal/domain"
)

type recordingRunner struct {
	lastSQL string
	result  *domain.Result
}

func (r *recordingRunner) Execute(_ context.Context, sqlQuery string) (*domain.Result, error) {
	r.lastSQL = sqlQuery
	return r.result, nil
}

func TestListTables(t *testing.T) {
	svc := NewService(&recordingRunner{})
	list := svc.ListTables()

	require.Len(t, list, 7)
	names := make([]string, len(list))
	for i, tbl := range list {
		names[i] = tbl.Name
	}
	assert.Equal(t, []string{
		"condition_occurrence", "death", "drug_exposure", "measurement",
		"person", "procedure_occurrence", "visit_occurrence",
	}, names)
}

func TestLookupTable(t *testing.T) {
	svc := NewService(&recordingRunner{})

	tbl, err := svc.LookupTable("person")
	require.NoError(t, err)
	assert.Contains(t, tbl.Description, "demographics")
	assert.Contains(t, tbl.OMOPDocs, "#person")

	_, err = svc.LookupTable("admissions")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestTableColumns_RoutesThroughPipeline(t *testing.T) {
	runner := &recordingRunner{result: &domain.Result{Columns: []string{"column_name"}}}
	svc := NewService(runner)

	_, err := svc.TableColumns(context.Background(), "measurement")
	require.NoError(t, err)

	assert.Contains(t, runner.lastSQL, "information_schema.columns")
	assert.Contains(t, runner.lastSQL, "'measurement'")
	assert.Contains(t, runner.lastSQL, "LIMIT 100")
}

func TestTableColumns_UnknownTable(t *testing.T) {
	runner := &recordingRunner{}
	svc := NewService(runner)

	_, err := svc.TableColumns(context.Background(), "secrets")
	require.Error(t, err)
	assert.Empty(t, runner.lastSQL, "unknown tables never reach the pipeline")
}
