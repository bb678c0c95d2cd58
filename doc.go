// Package docmap maps Go values to and from schemaless document values
// (the value package) the way document databases store them.
//
// - Serialize/Deserialize driven by per-type ObjectMappers built once and cached in a Registry
// - Struct tags (docmap:"name,documentID,serverTimestamp,typevar=T") plus explicit registration for accessors and constructors
// - Numeric narrowing with range and precision checks, enums, temporal, reference, geo and vector kinds
// - A stable error model: one *Error per failure with a breadcrumb path such as values[2].nested.field
//
// Design policy:
// - Keep only public APIs in the root package; put loaders under source/, conversions under codec/.
// - Unknown document keys follow the type's policy: warn (default, via DiagnosticSink), throw or ignore.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	e := docmap.New()
//	doc, err := e.Serialize(order)
//	back, err := docmap.DeserializeAs[Order](e, doc, docmap.WithDocument(ref))
//
//	_ = docmap.Register[Order](e.Registry(),
//		docmap.Getter[Order, int64]("", (*Order).GetTotal),
//		docmap.StrictUnknown(),
//	)
package docmap
