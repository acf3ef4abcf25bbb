package frame

import (
	gojson "github.com/goccy/go-json"
)

// FieldDescriptor is the JSON shape of one field for SchemaJSON
type FieldDescriptor struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// SchemaJSON returns a JSON snapshot of the frame's field descriptors,
// intended for logging and debugging
func (d *DataFrame) SchemaJSON() ([]byte, error) {
	out := make([]FieldDescriptor, len(d.fields))
	for i, f := range d.fields {
		out[i] = FieldDescriptor{
			Name:     f.Name,
			Type:     f.Type.String(),
			Nullable: f.Nullable,
		}
	}
	return gojson.Marshal(out)
}
