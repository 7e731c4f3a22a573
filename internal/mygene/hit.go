package mygene

import "github.com/tidwall/gjson"

// Hit is one query result. Raw holds the hit's JSON object as returned
// by the service; it is empty for terms that were never answered.
type Hit struct {
	Query    string
	NotFound bool
	Raw      string
}

// Found reports whether the hit carries gene data.
func (h Hit) Found() bool {
	return !h.NotFound && h.Raw != ""
}

// Field returns the JSON node at path (gjson syntax, e.g. "ensembl").
func (h Hit) Field(path string) gjson.Result {
	if h.Raw == "" {
		return gjson.Result{}
	}
	return gjson.Get(h.Raw, path)
}

// ID returns the service's gene ID for the hit ("_id").
func (h Hit) ID() string {
	return h.Field("_id").String()
}
