package codec

import "encoding/json"

// JSON is the standard-library codec. Its output decodes with GoJSON and
// the other way round.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                       { return "json" }

// Default is the codec used for package info and results archives.
var Default Codec = GoJSON{}
