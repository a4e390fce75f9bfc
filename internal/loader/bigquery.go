package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cloud.google.com/go/bigquery"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"

	"pkg.jsn.cam/fixturegen/pkg/fixture"
)

// StudentsSchema is the table layout students fixtures load into
const StudentsSchema = `[{"name":"id","type":"NUMERIC","mode":"NULLABLE"},{"name":"name","type":"STRING","mode":"NULLABLE"}]`

// TableID names a BigQuery table
type TableID struct {
	Project string
	Dataset string
	Table   string
}

func (t TableID) String() string {
	return fmt.Sprintf("%s.%s.%s", t.Project, t.Dataset, t.Table)
}

func (t TableID) Validate() error {
	if t.Project == "" || t.Dataset == "" || t.Table == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTable, t.String())
	}
	return nil
}

// BigQuerySink streams records into a BigQuery table
type BigQuerySink struct {
	id       TableID
	client   *bigquery.Client
	table    *bigquery.Table
	inserter *bigquery.Inserter
}

// NewBigQuerySink connects to BigQuery using application default credentials
func NewBigQuerySink(ctx context.Context, id TableID) (*BigQuerySink, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	client, err := bigquery.NewClient(ctx, id.Project)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	table := client.Dataset(id.Dataset).Table(id.Table)
	return &BigQuerySink{
		id:       id,
		client:   client,
		table:    table,
		inserter: table.Inserter(),
	}, nil
}

// EnsureTable creates the table with StudentsSchema. An existing table is
// left as it is.
func (s *BigQuerySink) EnsureTable(ctx context.Context) error {
	logger := log.WithField("component", "loader")

	schema, err := bigquery.SchemaFromJSON([]byte(StudentsSchema))
	if err != nil {
		return fmt.Errorf("bigquery.SchemaFromJSON: %w", err)
	}

	logger.Infof("Creating table %s", s.id)
	err = s.table.Create(ctx, &bigquery.TableMetadata{Schema: schema})
	if isAlreadyExists(err) {
		logger.Infof("Table %s already exists, not created", s.id)
		return nil
	}
	return err
}

func (s *BigQuerySink) Insert(ctx context.Context, records []fixture.Record) error {
	rows := make([]*bigQueryRow, len(records))
	for i := range records {
		rows[i] = (*bigQueryRow)(&records[i])
	}
	return s.inserter.Put(ctx, rows)
}

func (s *BigQuerySink) Close() error {
	return s.client.Close()
}

func isAlreadyExists(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}

// bigQueryRow implements bigquery.ValueSaver. The row id doubles as the
// insert id so a retried batch is deduplicated.
type bigQueryRow fixture.Record

func (r *bigQueryRow) Save() (map[string]bigquery.Value, string, error) {
	return map[string]bigquery.Value{
		"id":   r.ID,
		"name": r.Name,
	}, strconv.FormatInt(r.ID, 10), nil
}
