package export

import (
	"bytes"
	"encoding/csv"

	"snapdocs/internal/domain"
)

// BOM is the UTF-8 byte order mark, prepended for Excel compatibility on
// Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

func renderCSV(res *domain.ExtractionResult) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Field", "Value"}); err != nil {
		return nil, err
	}
	for _, row := range Flatten(res) {
		if err := w.Write([]string{row.Key, row.Value}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
