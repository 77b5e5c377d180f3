// Command wpilog2parquet walks a directory of wpilog files and projects
// each into a directory of chunked wide-format Parquet files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/viam-labs/wpilog-parquet/internal/logging"
	"github.com/viam-labs/wpilog-parquet/internal/manifest"
	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
	"github.com/viam-labs/wpilog-parquet/parquetio"
	"github.com/viam-labs/wpilog-parquet/project"
	"github.com/viam-labs/wpilog-parquet/wpilog"
)

const (
	flagOutRoot      = "out-root"
	flagFileFormat   = "file-format"
	flagOutputFormat = "output-format"
	flagChunkSize    = "chunk-size"
	flagJobs         = "jobs"
	flagVerbose      = "verbose"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "wpilog2parquet",
		Usage:     "project WPILib wpilog telemetry files into wide-format Parquet",
		ArgsUsage: "INPUT_DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagOutRoot, Required: true, Usage: "directory to write one output subdirectory per input file"},
			&cli.StringFlag{Name: flagFileFormat, Value: "parquet", Usage: "output file format (only parquet is implemented)"},
			&cli.StringFlag{Name: flagOutputFormat, Value: "wide", Usage: "row layout (only wide is implemented)"},
			&cli.IntFlag{Name: flagChunkSize, Value: parquetio.DefaultChunkSize, Usage: "rows per output Parquet file"},
			&cli.IntFlag{Name: flagJobs, Value: runtime.GOMAXPROCS(0), Usage: "maximum number of files converted in parallel"},
			&cli.BoolFlag{Name: flagVerbose, Usage: "enable debug logging"},
		},
		Action: runConvert,
	}
}

func runConvert(c *cli.Context) error {
	inputDir := c.Args().First()
	if inputDir == "" {
		return cli.Exit("INPUT_DIR is required", 1)
	}

	logger := logging.NewLogger("wpilog2parquet")
	if c.Bool(flagVerbose) {
		logger.SetLevel(logging.DEBUG)
	}
	defer logger.Sync() //nolint:errcheck

	if err := validateFormatFlags(c.String(flagFileFormat), c.String(flagOutputFormat)); err != nil {
		return err
	}

	inputs, err := discoverWpilogFiles(inputDir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		logger.Warnf("no .wpilog files found under %s", inputDir)
		return nil
	}

	outRoot := c.String(flagOutRoot)
	man, err := manifest.New(outRoot)
	if err != nil {
		return err
	}
	defer man.Close() //nolint:errcheck

	jobs := c.Int(flagJobs)
	if jobs < 1 {
		jobs = 1
	}
	chunkSize := c.Int(flagChunkSize)

	g := new(errgroup.Group)
	g.SetLimit(jobs)

	var mu sync.Mutex
	var convertErrs error
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			entry := convertOne(logger, input, outRoot, chunkSize)
			if writeErr := man.WriteEntry(entry); writeErr != nil {
				logger.Errorf("writing manifest entry for %s: %v", input, writeErr)
			}
			if entry.Error != "" {
				mu.Lock()
				convertErrs = multierr.Append(convertErrs, fmt.Errorf("%s: %s", input, entry.Error))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if convertErrs != nil {
		return cli.Exit(convertErrs.Error(), 1)
	}
	return nil
}

func convertOne(logger logging.Logger, inputPath, outRoot string, chunkSize int) manifest.Entry {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputDir := filepath.Join(outRoot, base)
	entry := manifest.Entry{InputPath: inputPath, OutputDir: outputDir, ChunkSize: chunkSize}

	fileLogger := logger.Named(base)

	reader, err := wpilog.Open(inputPath)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	rows, formatter, err := project.Project(reader, fileLogger)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	fileLogger.Debugf("projected %d rows, %d columns, skipped %d records", len(rows), len(formatter.MetricsNames), formatter.Stats.Total())

	writer := parquetio.NewWriter(outputDir).ChunkSize(chunkSize).OnChunkWritten(func(path string, rowsInChunk int) {
		fileLogger.Debugf("wrote %s (%d rows)", path, rowsInChunk)
	}).Build()

	stats, err := writer.WriteWithStats(rows)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	entry.NumRecords = stats.NumRecords
	entry.NumChunks = stats.NumChunks
	fileLogger.Infof("%s", stats.Summary())
	return entry
}

func discoverWpilogFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".wpilog") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, wpierr.NewIoError(err, "walking %s", root)
	}
	return files, nil
}

func validateFormatFlags(fileFormat, outputFormat string) error {
	if fileFormat != "parquet" {
		return wpierr.NewOutputError(nil, "file format %q is not implemented", fileFormat)
	}
	if outputFormat != "wide" {
		return wpierr.NewOutputError(nil, "output format %q is not implemented", outputFormat)
	}
	return nil
}
