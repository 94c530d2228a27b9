package formatter

import (
	"io"

	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackFormatter writes the result as a single MessagePack document, keyed by the same
// field names as the JSON output.
type MsgpackFormatter struct {
	w io.Writer
}

func NewMsgpackFormatter(w io.Writer) *MsgpackFormatter {
	return &MsgpackFormatter{w: w}
}

func (f *MsgpackFormatter) Format(result *reconstruct.Result) error {
	return msgpack.NewEncoder(f.w).Encode(result)
}
