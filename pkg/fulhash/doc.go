// SPDX-License-Identifier: MPL-2.0

// Package fulhash declares the hash algorithm catalog and the Digest payload
// that hashing tools return. A Digest is always rendered three ways: the
// algorithm tag, the lowercase hex of the sum, and the canonical
// "<algorithm>:<hex>" form used in manifests and logs.
package fulhash
