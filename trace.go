package fields

import (
	"encoding/json"
)

// DriftReason names why part of a schema contributed nothing.
type DriftReason string

const (
	// DriftUnknownVariant marks a stored row whose tag no variant declares.
	DriftUnknownVariant DriftReason = "unknown_variant"
	// DriftMissingReference marks a reference key absent from the catalog.
	DriftMissingReference DriftReason = "missing_reference"
	// DriftDepthExceeded marks a reference skipped at the nested reference limit.
	DriftDepthExceeded DriftReason = "depth_exceeded"
)

// Trace records what one resolution pass read and skipped, in read order.
type Trace struct {
	Subject string  `json:"subject"`
	Reads   []Read  `json:"reads"`
	Drift   []Drift `json:"drift,omitempty"`
}

// Read is one value source lookup.
type Read struct {
	Key   string `json:"key"`
	Found bool   `json:"found"`
	Value any    `json:"value,omitempty"`
	Err   string `json:"error,omitempty"`
}

// Drift is one silently skipped row, reference or subtree.
type Drift struct {
	Field  string      `json:"field"`
	Key    string      `json:"key"`
	Reason DriftReason `json:"reason"`
	// Ref holds the unknown variant tag or reference key.
	Ref string `json:"ref,omitempty"`
	// Row is the row index for variant drift, -1 otherwise.
	Row int `json:"row"`
}

// Keys returns the storage keys read, in order.
func (t *Trace) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, len(t.Reads))
	for i, read := range t.Reads {
		keys[i] = read.Key
	}
	return keys
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
