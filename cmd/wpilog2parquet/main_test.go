package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/viam-labs/wpilog-parquet/internal/logging"
	"github.com/viam-labs/wpilog-parquet/internal/manifest"
)

func writeLE(buf []byte, v uint64, n int) []byte {
	for i := 0; i < n; i++ {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}

func buildHeader() []byte {
	buf := []byte("WPILOG")
	buf = writeLE(buf, 0x0100, 2)
	buf = writeLE(buf, 0, 4)
	return buf
}

func buildRecord(entry uint32, ts uint64, payload []byte) []byte {
	headerByte := byte(3) | byte(3)<<2 | byte(7)<<4
	buf := []byte{headerByte}
	buf = writeLE(buf, uint64(entry), 4)
	buf = writeLE(buf, uint64(len(payload)), 4)
	buf = writeLE(buf, ts, 8)
	return append(buf, payload...)
}

func lenPrefixed(s string) []byte {
	buf := writeLE(nil, uint64(len(s)), 4)
	return append(buf, s...)
}

func buildStartPayload(entry uint32, name, typ, metadata string) []byte {
	buf := []byte{0x00}
	buf = writeLE(buf, uint64(entry), 4)
	buf = append(buf, lenPrefixed(name)...)
	buf = append(buf, lenPrefixed(typ)...)
	buf = append(buf, lenPrefixed(metadata)...)
	return buf
}

func f64Bytes(v float64) []byte {
	return writeLE(nil, math.Float64bits(v), 8)
}

func minimalWpilogFile() []byte {
	data := buildHeader()
	data = append(data, buildRecord(0, 0, buildStartPayload(1, "/x", "double", ""))...)
	data = append(data, buildRecord(1, 1_000_000, f64Bytes(3.14))...)
	return data
}

func TestValidateFormatFlags(t *testing.T) {
	test.That(t, validateFormatFlags("parquet", "wide"), test.ShouldBeNil)
	test.That(t, validateFormatFlags("csv", "wide"), test.ShouldNotBeNil)
	test.That(t, validateFormatFlags("parquet", "long"), test.ShouldNotBeNil)
}

func TestDiscoverWpilogFiles(t *testing.T) {
	dir := t.TempDir()
	test.That(t, os.WriteFile(filepath.Join(dir, "a.wpilog"), minimalWpilogFile(), 0o644), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(dir, "b.WPILOG"), minimalWpilogFile(), 0o644), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644), test.ShouldBeNil)

	sub := filepath.Join(dir, "nested")
	test.That(t, os.MkdirAll(sub, 0o755), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(sub, "c.wpilog"), minimalWpilogFile(), 0o644), test.ShouldBeNil)

	files, err := discoverWpilogFiles(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(files), test.ShouldEqual, 3)
}

func TestDiscoverWpilogFilesMissingDir(t *testing.T) {
	_, err := discoverWpilogFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConvertOneWritesParquetAndManifestEntry(t *testing.T) {
	inputDir := t.TempDir()
	inputPath := filepath.Join(inputDir, "run.wpilog")
	test.That(t, os.WriteFile(inputPath, minimalWpilogFile(), 0o644), test.ShouldBeNil)

	outRoot := t.TempDir()
	man, err := manifest.New(outRoot)
	test.That(t, err, test.ShouldBeNil)
	defer man.Close() //nolint:errcheck

	logger := logging.NewTestLogger(t)
	entry := convertOne(logger, inputPath, outRoot, 50_000)
	test.That(t, entry.Error, test.ShouldBeEmpty)
	test.That(t, entry.NumRecords, test.ShouldEqual, 1)
	test.That(t, entry.NumChunks, test.ShouldEqual, 1)
	test.That(t, man.WriteEntry(entry), test.ShouldBeNil)

	outputFile := filepath.Join(entry.OutputDir, "file_part000.parquet")
	info, err := os.Stat(outputFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, int64(0))
}

func TestConvertOneReportsBadFile(t *testing.T) {
	inputDir := t.TempDir()
	inputPath := filepath.Join(inputDir, "bad.wpilog")
	test.That(t, os.WriteFile(inputPath, []byte("not a wpilog file"), 0o644), test.ShouldBeNil)

	logger := logging.NewTestLogger(t)
	entry := convertOne(logger, inputPath, t.TempDir(), 50_000)
	test.That(t, entry.Error, test.ShouldNotBeEmpty)
}

func TestNewAppRequiresOutRoot(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"wpilog2parquet", t.TempDir()})
	test.That(t, err, test.ShouldNotBeNil)
}
