// Package swaggerkit serves the API's OpenAPI document and the Swagger UI in front of it
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	perr "ksefconnect/internal/platform/errors"
	phttp "ksefconnect/internal/platform/net/http"

	"ksefconnect/internal/services/api/docs"
)

// Mutator edits the decoded document before it is served; modules register them from init
type Mutator func(doc map[string]any)

var mutators []Mutator

var readDoc = func() string { return docs.SwaggerInfo.ReadDoc() }

func Register(m Mutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

const (
	envelopeRef = "#/components/schemas/Envelope"
	problemRef  = "#/components/responses/Problem"
)

func docJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := document()
	if err != nil {
		phttp.WriteError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	phttp.WriteJSON(w, http.StatusOK, doc)
}

func document() (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(readDoc()), &doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIntegrity, "openapi document is not valid JSON")
	}
	pinVersion(doc, docs.SwaggerInfo.BasePath)
	eachOperation(doc, func(op map[string]any) {
		responses := object(op, "responses")
		envelopeSuccess(responses)
		if _, ok := responses["500"]; !ok {
			responses["500"] = map[string]any{"$ref": problemRef}
		}
		if _, secured := op["security"]; secured {
			if _, ok := responses["401"]; !ok {
				responses["401"] = map[string]any{"$ref": problemRef}
			}
		}
	})
	for _, m := range mutators {
		m(doc)
	}
	return doc, nil
}

// pinVersion serves 3.0.3, the newest version the bundled UI renders
func pinVersion(doc map[string]any, base string) {
	delete(doc, "swagger")
	if v, _ := doc["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		doc["openapi"] = "3.0.3"
	}
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{map[string]any{"url": base}}
	}
}

// envelopeSuccess rewrites 2xx payload schemas to the envelope carrying them in data
func envelopeSuccess(responses map[string]any) {
	for code, v := range responses {
		resp, ok := v.(map[string]any)
		if !ok || !strings.HasPrefix(code, "2") {
			continue
		}
		content, _ := resp["content"].(map[string]any)
		media, _ := content["application/json"].(map[string]any)
		schema, _ := media["schema"].(map[string]any)
		if schema == nil || schema["$ref"] == envelopeRef {
			continue
		}
		media["schema"] = map[string]any{"allOf": []any{
			map[string]any{"$ref": envelopeRef},
			map[string]any{"properties": map[string]any{"data": schema}},
		}}
	}
}

func eachOperation(doc map[string]any, fn func(op map[string]any)) {
	paths, _ := doc["paths"].(map[string]any)
	for _, p := range paths {
		item, _ := p.(map[string]any)
		for _, v := range item {
			if op, ok := v.(map[string]any); ok {
				fn(op)
			}
		}
	}
}

// object returns m[key] as an object, creating it when absent
func object(m map[string]any, key string) map[string]any {
	o, ok := m[key].(map[string]any)
	if !ok {
		o = map[string]any{}
		m[key] = o
	}
	return o
}
