// Package vault is the document store that transcriptions are appended to.
//
// A Store exposes four capabilities: look a path up, read a document,
// create a document and overwrite a document. AppendEntry builds the
// read-modify-write append on top of them.
//
// # Backends
//
//   - vault/local: a notes folder on the local filesystem
//   - vault/s3: an S3 bucket (or an S3-compatible service such as MinIO)
//
// Backends register themselves on import; select one through Config:
//
//	vault:
//	  provider: "s3"
//	  bucket: "notes"
//	  region: "eu-central-1"
//	  prefix: "vault/"
package vault
