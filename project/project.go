package project

import (
	"strings"

	"github.com/viam-labs/wpilog-parquet/internal/logging"
	"github.com/viam-labs/wpilog-parquet/wpilog"
)

// timestampEntryName is the FRC robot-code convention for a monotonic
// per-loop-iteration marker entry. loop_count advances specifically on
// updates to this entry rather than on every row, so rows produced within
// the same control-loop iteration share one loop_count; the row that
// triggers the bump keeps the pre-bump value (read-before-increment).
const timestampEntryName = "/Timestamp"

// Project folds r's record stream into wide rows plus the cross-row
// metadata a Parquet writer needs. It runs two passes over r.Records():
// the first resolves every structschema: registration up front so struct:
// entries can unpack regardless of where in the file their schema was
// declared; the second performs the real projection against the fully
// populated registry. Both passes replay the same restartable iterator,
// so no state is retained on r between them.
func Project(r *wpilog.Reader, logger logging.Logger) ([]WideRow, *Formatter, error) {
	registry := wpilog.NewRegistry()

	schemaPass, err := fold(r, registry, true)
	if err != nil {
		return nil, nil, err
	}

	dataPass, err := fold(r, registry, false)
	if err != nil {
		return nil, nil, err
	}

	formatter := &Formatter{
		MetricsNames:  dataPass.metricsNames,
		StructSchemas: schemaPass.structSchemaNames,
		Stats:         dataPass.stats,
	}
	if formatter.Stats.Total() > 0 {
		logger.Warnw("skipped records while projecting",
			"noEntry", formatter.Stats.SkippedNoEntry,
			"decodeErrors", formatter.Stats.SkippedDecodeErrors,
			"schemaErrors", formatter.Stats.SkippedSchemaErrors,
			"unknownControl", formatter.Stats.SkippedUnknownControl)
	}
	return dataPass.rows, formatter, nil
}

type foldResult struct {
	rows              []WideRow
	metricsNames      map[string]struct{}
	structSchemaNames []string
	stats             Stats
}

func fold(r *wpilog.Reader, registry *wpilog.Registry, schemaOnly bool) (foldResult, error) {
	result := foldResult{metricsNames: make(map[string]struct{})}
	dir := wpilog.NewDirectory()
	var loopCount uint64

	for rec, err := range r.Records() {
		if err != nil {
			return foldResult{}, err
		}

		if rec.IsControl() {
			if err := applyControl(rec, dir, &result); err != nil {
				return foldResult{}, err
			}
			continue
		}

		info, live := dir.Lookup(rec.Entry)
		if !live {
			result.stats.SkippedNoEntry++
			continue
		}

		if strings.HasPrefix(info.Type, structSchemaPrefix) {
			if schemaOnly {
				if err := registerStructSchema(info, rec, registry, &result); err != nil {
					return foldResult{}, err
				}
			}
			continue
		}
		if schemaOnly {
			continue
		}

		values, skip, err := decodeColumns(info, rec, registry)
		if err != nil {
			result.stats.SkippedDecodeErrors++
			continue
		}
		if skip {
			continue
		}

		result.rows = append(result.rows, WideRow{
			Timestamp: float64(rec.TimestampMicros) / 1_000_000.0,
			Entry:     rec.Entry,
			TypeName:  info.Type,
			LoopCount: loopCount,
			Data:      values,
		})
		if info.Name == timestampEntryName {
			loopCount++
		}
		for col := range values {
			result.metricsNames[col] = struct{}{}
		}
	}
	return result, nil
}

func applyControl(rec wpilog.Record, dir *wpilog.Directory, result *foldResult) error {
	switch {
	case rec.IsStart():
		start, err := wpilog.GetStartData(rec)
		if err != nil {
			return err
		}
		if err := dir.ApplyStart(start.Entry, start.Name, start.Type, start.Metadata, rec.TimestampMicros); err != nil {
			return err
		}
		if strings.HasPrefix(start.Type, structSchemaPrefix) {
			result.structSchemaNames = append(result.structSchemaNames, strings.TrimPrefix(start.Type, structSchemaPrefix))
		}
	case rec.IsFinish():
		id, err := wpilog.GetFinishEntry(rec)
		if err != nil {
			return err
		}
		dir.ApplyFinish(id)
	case rec.IsSetMetadata():
		meta, err := wpilog.GetSetMetadataData(rec)
		if err != nil {
			return err
		}
		if err := dir.ApplyMetadata(meta.Entry, meta.Metadata); err != nil {
			return err
		}
	default:
		result.stats.SkippedUnknownControl++
	}
	return nil
}

func registerStructSchema(info wpilog.EntryInfo, rec wpilog.Record, registry *wpilog.Registry, result *foldResult) error {
	text, err := wpilog.GetString(rec)
	if err != nil {
		result.stats.SkippedSchemaErrors++
		return nil
	}
	name := strings.TrimPrefix(info.Type, structSchemaPrefix)
	schema, err := wpilog.ParseSchema(text)
	if err != nil {
		result.stats.SkippedSchemaErrors++
		return nil
	}
	return registry.Register(name, schema)
}
