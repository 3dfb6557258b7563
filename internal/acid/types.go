package acid

import (
	"bytes"
	"encoding/json"
)

// NumericText is a number as the user typed it. It decodes from either a
// JSON string ("1.8e-5") or a bare JSON number (1.8e-5) and keeps the text
// so parsing happens in one place.
type NumericText string

func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}
	*n = NumericText(data)
	return nil
}

// SolveRequest is the JSON body for POST /acid/ph.
type SolveRequest struct {
	Formula       string      `json:"formula"`
	Concentration NumericText `json:"concentration"` // initial [HA], M
	Ka            NumericText `json:"ka"`
}

// SolveResponse is the JSON response for a successful solve.
type SolveResponse struct {
	Formula              string   `json:"formula"`
	InitialConcentration float64  `json:"initial_concentration"`
	Ka                   float64  `json:"ka"`
	HPlusEquilibrium     float64  `json:"h_plus_equilibrium"`
	PH                   float64  `json:"ph"`
	ApproximationUsed    bool     `json:"approximation_used"`
	Path                 string   `json:"path"`
	Summary              string   `json:"summary"`
	Steps                []string `json:"steps"`
}

// FailureResponse is the JSON body when the solver rejects the input or
// finds no usable root. Steps holds the derivation up to the failure.
type FailureResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind"`
	Steps []string `json:"steps"`
}

// BatchRequest is the JSON body for POST /acid/ph/batch.
type BatchRequest struct {
	Solutions []SolveRequest `json:"solutions"`
}

// BatchEntry is one solved (or failed) entry, in request order.
type BatchEntry struct {
	Index  int            `json:"index"`
	Result *SolveResponse `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
	Kind   string         `json:"kind,omitempty"`
}

// BatchResponse is the JSON response for POST /acid/ph/batch.
type BatchResponse struct {
	Results   []BatchEntry `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}
