package exports

import (
	"bufio"
	"io"
	"strings"
)

// utf8BOM lets spreadsheet tools detect the encoding.
const utf8BOM = "\uFEFF"

var quoteEscaper = strings.NewReplacer(`"`, `""`)

// csvWriter writes RFC 4180 rows with every cell double-quoted. encoding/csv
// only quotes cells that need it, which some spreadsheet imports mishandle
// for leading zeros and phone numbers.
type csvWriter struct {
	w   *bufio.Writer
	err error
}

func newCSVWriter(w io.Writer) *csvWriter {
	cw := &csvWriter{w: bufio.NewWriter(w)}
	_, cw.err = cw.w.WriteString(utf8BOM)
	return cw
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	for i, cell := range record {
		if i > 0 {
			cw.w.WriteByte(',')
		}
		cw.w.WriteByte('"')
		quoteEscaper.WriteString(cw.w, cell)
		cw.w.WriteByte('"')
	}
	_, cw.err = cw.w.WriteString("\r\n")
}

func (cw *csvWriter) Flush() error {
	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}

// encodeCSV writes the BOM, the header and one line per row.
func encodeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := newCSVWriter(w)
	cw.Write(header)
	for _, row := range rows {
		cw.Write(row)
	}
	return cw.Flush()
}
