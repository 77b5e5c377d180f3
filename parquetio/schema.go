package parquetio

import (
	"fmt"
	"strings"
)

// buildJSONSchema renders schema as the JSON schema string
// github.com/xitongsys/parquet-go's JSONWriter expects: a root Tag plus one
// Fields entry per column. Every non-required column is OPTIONAL so a row
// missing that column encodes as a Parquet null, per the "missing values
// are null" contract.
func buildJSONSchema(schema DerivedSchema) string {
	var fields []string
	for _, col := range schema.Columns {
		fields = append(fields, fieldTag(col, schema.Kinds[col]))
	}
	return fmt.Sprintf(`{"Tag":"name=parquet_go_root, repetitiontype=REQUIRED","Fields":[%s]}`, strings.Join(fields, ","))
}

func fieldTag(name string, kind Kind) string {
	required := name == "timestamp" || name == "entry_type"
	repetition := "OPTIONAL"
	if required {
		repetition = "REQUIRED"
	}

	switch kind {
	case KindBool:
		return fmt.Sprintf(`{"Tag":"name=%s, type=BOOLEAN, repetitiontype=%s"}`, name, repetition)
	case KindInt64:
		return fmt.Sprintf(`{"Tag":"name=%s, type=INT64, repetitiontype=%s"}`, name, repetition)
	case KindFloat64:
		return fmt.Sprintf(`{"Tag":"name=%s, type=DOUBLE, repetitiontype=%s"}`, name, repetition)
	case KindBoolArray:
		return fmt.Sprintf(`{"Tag":"name=%s, type=BOOLEAN, repetitiontype=REPEATED"}`, name)
	case KindInt64Array:
		return fmt.Sprintf(`{"Tag":"name=%s, type=INT64, repetitiontype=REPEATED"}`, name)
	case KindFloat64Array:
		return fmt.Sprintf(`{"Tag":"name=%s, type=DOUBLE, repetitiontype=REPEATED"}`, name)
	case KindStringArray:
		return fmt.Sprintf(`{"Tag":"name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REPEATED"}`, name)
	case KindNull, KindString:
		fallthrough
	default:
		return fmt.Sprintf(`{"Tag":"name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=%s"}`, name, repetition)
	}
}
