package wpilog

import "github.com/viam-labs/wpilog-parquet/internal/wpierr"

func newTruncatedHeaderError(offset, want, have int) error {
	return wpierr.NewInvalidFormatError(
		"truncated record header at offset %d: need %d bytes, have %d", offset, want, have)
}

func newTruncatedPayloadError(offset, want, have int) error {
	return wpierr.NewInvalidFormatError(
		"truncated record payload for record at offset %d: need %d bytes, have %d", offset, want, have)
}
