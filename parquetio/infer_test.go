package parquetio

import (
	"testing"

	"go.viam.com/test"

	"github.com/viam-labs/wpilog-parquet/project"
)

func TestInferSchemaAlwaysIncludesTimestampAndEntryType(t *testing.T) {
	schema, err := InferSchema(nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, schema.Kinds["timestamp"], test.ShouldEqual, KindNull)
	test.That(t, schema.Kinds["entry_type"], test.ShouldEqual, KindNull)
}

func TestInferSchemaMixedNumericPromotesToFloat64(t *testing.T) {
	// Mixed type promotion.
	rows := []project.WideRow{
		{Timestamp: 1.0, TypeName: "int64", Data: map[string]interface{}{"/speed": int64(4)}},
		{Timestamp: 2.0, TypeName: "double", Data: map[string]interface{}{"/speed": 4.5}},
	}
	schema, err := InferSchema(rows, []string{"/speed"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, schema.Kinds["/speed"], test.ShouldEqual, KindFloat64)
}

func TestInferSchemaHomogeneousArrayStays(t *testing.T) {
	rows := []project.WideRow{
		{Data: map[string]interface{}{"/flags": []bool{true, false}}},
	}
	schema, err := InferSchema(rows, []string{"/flags"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, schema.Kinds["/flags"], test.ShouldEqual, KindBoolArray)
}

func TestInferSchemaColumnOrderPreserved(t *testing.T) {
	schema, err := InferSchema(nil, []string{"/b", "/a"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, schema.Columns[0], test.ShouldEqual, "timestamp")
	test.That(t, schema.Columns[1], test.ShouldEqual, "entry_type")
	test.That(t, schema.Columns[2], test.ShouldEqual, "/b")
	test.That(t, schema.Columns[3], test.ShouldEqual, "/a")
}
