package export

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Meta describes the run a grid was sampled from.
type Meta struct {
	RunID      uuid.UUID `json:"run_id"`
	Model      string    `json:"model"`
	Integrator string    `json:"integrator"`
	Steps      int       `json:"steps"`
	Created    time.Time `json:"created"`
}

type document struct {
	Meta    Meta        `json:"meta"`
	Times   []float64   `json:"times"`
	States  [][]float64 `json:"states"`
	Columns []string    `json:"columns"`
}

func WriteJSON(w io.Writer, g Grid, meta Meta) error {
	cols := make([]string, g.Dimensions())
	for i := range cols {
		cols[i] = "x" + strconv.Itoa(i)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{Meta: meta, Times: g.Times, States: g.States, Columns: cols})
}
