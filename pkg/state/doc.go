// Package state keeps exported form snapshots keyed by document, using the
// content fingerprint as an ETag so unchanged content is not saved again.
//
// Data flow:
//
//	formstate.Store.Serializable() -> formstate.GetHash -> Exporter -> Store.Save
//
// Store implementations only load and save one snapshot per Ref. The bundled
// MemoryStore keeps everything in process; durable backends are left to
// consumers.
package state
