package module

import "ksefconnect/internal/modkit/swaggerkit"

func init() {
	swaggerkit.Register(describeTag)
}

// describeTag documents the ksef tag and the error kinds its endpoints return
func describeTag(spec map[string]any) {
	tags, _ := spec["tags"].([]any)
	spec["tags"] = append(tags, map[string]any{
		"name": "ksef",
		"description": "Per company KSeF token storage and connection checks. " +
			"Failures carry one of: config (412), integrity (500), unavailable (503), " +
			"too_many_requests (429), authority_rejected (424), authority_timeout (504).",
	})
}
