package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
)

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

func (f *JSONFormatter) Format(result *reconstruct.Result) error {
	data, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}
