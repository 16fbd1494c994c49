package ingest

import "io"

// WindSource reads gridded wind data from a source and returns records.
type WindSource interface {
	Parse(r io.Reader) ([]WindRecord, error)
}
