package wpilog

import (
	"testing"

	"go.viam.com/test"

	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
)

func TestOpenBytesHeader(t *testing.T) {
	data := buildHeader(0x0100, "")
	r, err := OpenBytes(data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r.Version(), test.ShouldEqual, uint16(0x0100))
	test.That(t, r.ExtraHeader(), test.ShouldEqual, "")
}

func TestOpenBytesExtraHeader(t *testing.T) {
	data := buildHeader(0x0100, "hello")
	r, err := OpenBytes(data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r.ExtraHeader(), test.ShouldEqual, "hello")
}

func TestOpenBytesBadMagic(t *testing.T) {
	data := []byte("NOTLOG\x00\x01\x00\x00\x00\x00")
	_, err := OpenBytes(data)
	test.That(t, err, test.ShouldNotBeNil)
	kind, ok := wpierr.KindOf(err)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, kind, test.ShouldEqual, wpierr.InvalidFormat)
}

func TestOpenBytesTruncatedHeader(t *testing.T) {
	_, err := OpenBytes([]byte("WPILOG"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRecordsMinimalDoubleEntry(t *testing.T) {
	// Minimal double entry.
	data := buildHeader(0x0100, "")
	data = append(data, buildRecord(0, 0, buildStartPayload(1, "/x", "double", ""))...)
	data = append(data, buildRecord(1, 1_000_000, f64Bytes(3.14))...)

	r, err := OpenBytes(data)
	test.That(t, err, test.ShouldBeNil)

	var recs []Record
	for rec, err := range r.Records() {
		test.That(t, err, test.ShouldBeNil)
		recs = append(recs, rec)
	}
	test.That(t, len(recs), test.ShouldEqual, 2)

	start, err := GetStartData(recs[0])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, start.Name, test.ShouldEqual, "/x")
	test.That(t, start.Type, test.ShouldEqual, "double")

	value, err := GetDouble(recs[1])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, value, test.ShouldEqual, 3.14)
	test.That(t, recs[1].TimestampMicros, test.ShouldEqual, uint64(1_000_000))
}

func TestRecordsEndingExactlyAtFileEnd(t *testing.T) {
	data := buildHeader(0x0100, "")
	data = append(data, buildRecord(0, 0, buildStartPayload(1, "/x", "double", ""))...)

	r, err := OpenBytes(data)
	test.That(t, err, test.ShouldBeNil)

	count := 0
	for _, err := range r.Records() {
		test.That(t, err, test.ShouldBeNil)
		count++
	}
	test.That(t, count, test.ShouldEqual, 1)
}

func TestRecordsOneByteShort(t *testing.T) {
	data := buildHeader(0x0100, "")
	full := buildRecord(0, 0, buildStartPayload(1, "/x", "double", ""))
	data = append(data, full[:len(full)-1]...)

	r, err := OpenBytes(data)
	test.That(t, err, test.ShouldBeNil)

	sawErr := false
	for _, err := range r.Records() {
		if err != nil {
			sawErr = true
		}
	}
	test.That(t, sawErr, test.ShouldBeTrue)
}

func TestRecordsRestartable(t *testing.T) {
	data := buildHeader(0x0100, "")
	data = append(data, buildRecord(0, 0, buildStartPayload(1, "/x", "double", ""))...)
	r, err := OpenBytes(data)
	test.That(t, err, test.ShouldBeNil)

	first := 0
	for range r.Records() {
		first++
	}
	second := 0
	for range r.Records() {
		second++
	}
	test.That(t, first, test.ShouldEqual, second)
}
