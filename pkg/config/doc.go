// Package config loads the configuration shared by every columnar command.
//
// A single Config structure holds one section per concern:
//   - Encoding: the wire format for container bytes and whether to seal
//     them in an envelope
//   - Compression: the envelope codec and its decompression limit
//   - Generate: synthetic event generation
//   - Export: Arrow, Parquet or Avro output
//   - Sink: where encoded blobs are delivered
//   - Logging, Metrics and Tracing
//
// Files are YAML. ${VAR} and ${VAR:-default} references are replaced with
// environment values before parsing, so secrets can stay out of the file:
//
//	sink:
//	  kind: s3
//	  s3:
//	    bucket: ${COLUMNAR_BUCKET}
//	    region: ${AWS_REGION:-us-east-1}
//
// Sections the file leaves out keep the values from Default. Unknown keys
// are rejected.
package config
