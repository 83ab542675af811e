// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration shared by the
// schedule fingerprint and the job store.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same resolved fields always produce the same bytes and therefore the
// same BLAKE3 fingerprint. JSON remains the format for CLI output;
// CBOR is used only for bytes that are hashed or written to disk.
//
//	data, err := codec.Marshal(fields.Canonical())
//	err = codec.Unmarshal(data, &fields)
//
// Types carry `json` tags only. fxamacker/cbor reads them when no
// `cbor` tag is present, so one tag names the field in both formats.
package codec
