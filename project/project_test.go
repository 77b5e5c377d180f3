package project

import (
	"testing"

	"go.viam.com/test"

	"github.com/viam-labs/wpilog-parquet/internal/logging"
	"github.com/viam-labs/wpilog-parquet/wpilog"
)

func openTest(t *testing.T, data []byte) *wpilog.Reader {
	t.Helper()
	r, err := wpilog.OpenBytes(data)
	test.That(t, err, test.ShouldBeNil)
	return r
}

func TestProjectMinimalDoubleEntry(t *testing.T) {
	// Minimal double entry.
	data := buildHeader()
	data = append(data, buildRecord(0, 0, buildStartPayload(1, "/x", "double", ""))...)
	data = append(data, buildRecord(1, 1_000_000, f64Bytes(3.14))...)

	r := openTest(t, data)
	rows, formatter, err := Project(r, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rows), test.ShouldEqual, 1)
	test.That(t, rows[0].Timestamp, test.ShouldEqual, 1.0)
	test.That(t, rows[0].LoopCount, test.ShouldEqual, uint64(0))
	test.That(t, rows[0].TypeName, test.ShouldEqual, "double")
	test.That(t, rows[0].Data["/x"], test.ShouldEqual, 3.14)
	test.That(t, formatter.HasColumn("/x"), test.ShouldBeTrue)
}

func TestProjectStructWithSchema(t *testing.T) {
	// Struct unpack, schema registered via a structschema: entry.
	data := buildHeader()
	data = append(data, buildRecord(0, 0, buildStartPayload(4, "/.schema/struct:Pose2d", "structschema:Pose2d", ""))...)
	data = append(data, buildRecord(4, 0, []byte("double x; double y; double theta"))...)
	data = append(data, buildRecord(0, 0, buildStartPayload(3, "/pose", "struct:Pose2d", ""))...)
	payload := append(append(f64Bytes(1.0), f64Bytes(2.0)...), f64Bytes(3.0)...)
	data = append(data, buildRecord(3, 5_000_000, payload)...)

	r := openTest(t, data)
	rows, formatter, err := Project(r, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rows), test.ShouldEqual, 1)
	test.That(t, rows[0].Data["/pose.x"], test.ShouldEqual, 1.0)
	test.That(t, rows[0].Data["/pose.y"], test.ShouldEqual, 2.0)
	test.That(t, rows[0].Data["/pose.theta"], test.ShouldEqual, 3.0)
	test.That(t, formatter.StructSchemas, test.ShouldResemble, []string{"Pose2d"})
}

func TestProjectEntryReuseAttributesRowsCorrectly(t *testing.T) {
	// Entry reuse.
	data := buildHeader()
	data = append(data, buildRecord(0, 0, buildStartPayload(5, "/a", "int64", ""))...)
	data = append(data, buildRecord(5, 1, writeLE(nil, 10, 8))...)
	data = append(data, buildRecord(0, 0, buildFinishPayload(5))...)
	data = append(data, buildRecord(0, 0, buildStartPayload(5, "/b", "int64", ""))...)
	data = append(data, buildRecord(5, 2, writeLE(nil, 20, 8))...)

	r := openTest(t, data)
	rows, _, err := Project(r, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rows), test.ShouldEqual, 2)
	test.That(t, rows[0].Data["/a"], test.ShouldEqual, int64(10))
	test.That(t, rows[1].Data["/b"], test.ShouldEqual, int64(20))
}

func TestProjectDataBeforeStartIsSkipped(t *testing.T) {
	data := buildHeader()
	data = append(data, buildRecord(9, 0, writeLE(nil, 1, 8))...)

	r := openTest(t, data)
	rows, formatter, err := Project(r, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rows), test.ShouldEqual, 0)
	test.That(t, formatter.Stats.SkippedNoEntry, test.ShouldEqual, 1)
}

func TestProjectDecodeErrorIsRecoverable(t *testing.T) {
	data := buildHeader()
	data = append(data, buildRecord(0, 0, buildStartPayload(1, "/bad", "int64", ""))...)
	data = append(data, buildRecord(1, 0, []byte{1, 2, 3})...) // int64 needs 8 bytes

	r := openTest(t, data)
	rows, formatter, err := Project(r, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rows), test.ShouldEqual, 0)
	test.That(t, formatter.Stats.SkippedDecodeErrors, test.ShouldEqual, 1)
}

func TestProjectRowsWithoutTimestampEntryShareLoopCount(t *testing.T) {
	data := buildHeader()
	data = append(data, buildRecord(0, 0, buildStartPayload(1, "/x", "int64", ""))...)
	for i := uint64(0); i < 3; i++ {
		data = append(data, buildRecord(1, i, writeLE(nil, i, 8))...)
	}

	r := openTest(t, data)
	rows, _, err := Project(r, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rows), test.ShouldEqual, 3)
	for _, row := range rows {
		test.That(t, row.LoopCount, test.ShouldEqual, uint64(0))
	}
}

func TestProjectLoopCountBumpsOnTimestampEntry(t *testing.T) {
	data := buildHeader()
	data = append(data, buildRecord(0, 0, buildStartPayload(1, "/Timestamp", "int64", ""))...)
	data = append(data, buildRecord(0, 0, buildStartPayload(2, "/x", "int64", ""))...)

	data = append(data, buildRecord(2, 0, writeLE(nil, 1, 8))...)   // loop 0
	data = append(data, buildRecord(1, 0, writeLE(nil, 100, 8))...) // /Timestamp row itself: loop 0, then bumps
	data = append(data, buildRecord(2, 1, writeLE(nil, 2, 8))...)   // loop 1

	r := openTest(t, data)
	rows, _, err := Project(r, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rows), test.ShouldEqual, 3)
	test.That(t, rows[0].LoopCount, test.ShouldEqual, uint64(0))
	test.That(t, rows[1].LoopCount, test.ShouldEqual, uint64(0))
	test.That(t, rows[2].LoopCount, test.ShouldEqual, uint64(1))
}
