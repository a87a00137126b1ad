// Package catalog defines the typed entities returned by the Chosic API and
// the heuristic mapping layer that produces them from raw JSON payloads.
//
// The API does not tag its responses with a type discriminator: the same
// endpoint family returns bare objects, `{"items": [...]}` wrappers, or plain
// lists depending on the tool that backs it. [MapResponse] detects each
// collection structurally and tolerates malformed items, while [MergeInto]
// folds paginated payloads together before mapping.
package catalog
