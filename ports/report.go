package ports

import (
	"io"

	"gokea/domain/run"
)

// ReportWriter serializes a ranked run to w
type ReportWriter interface {
	Format() string
	Write(w io.Writer, report *run.Report) error
}
