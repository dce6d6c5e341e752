package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes a header row "t,x0,x1,..." followed by one row per sample.
func WriteCSV(w io.Writer, g Grid) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, g.Dimensions()+1)
	header = append(header, "t")
	for i := range g.Dimensions() {
		header = append(header, "x"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for k, t := range g.Times {
		row[0] = formatFloat(t)
		for i, v := range g.States[k] {
			row[i+1] = formatFloat(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
