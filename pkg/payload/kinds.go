// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"github.com/fulmenhq/crucible/pkg/fulhash"
	"github.com/fulmenhq/crucible/pkg/fulpack"
)

// Catalog identifiers stamped into envelopes.
const (
	CatalogFulpack = "fulpack"
	CatalogFulhash = "fulhash"
)

const (
	KindArchiveInfo      = "archive-info"
	KindArchiveEntry     = "archive-entry"
	KindArchiveManifest  = "archive-manifest"
	KindValidationResult = "validation-result"
	KindExtractResult    = "extract-result"
	KindCreateOptions    = "create-options"
	KindExtractOptions   = "extract-options"
	KindScanOptions      = "scan-options"
	KindDigest           = "digest"
)

func init() {
	for _, k := range []Kind{
		Define(KindArchiveInfo, CatalogFulpack, fulpack.FulpackVersion,
			"Metadata about an archive file", fulpack.ArchiveInfo.CheckInvariants),
		Define(KindArchiveEntry, CatalogFulpack, fulpack.FulpackVersion,
			"Metadata for a single archive entry", fulpack.ArchiveEntry.CheckInvariants),
		Define(KindArchiveManifest, CatalogFulpack, fulpack.FulpackVersion,
			"Complete archive table of contents", fulpack.ArchiveManifest.CheckInvariants),
		Define(KindValidationResult, CatalogFulpack, fulpack.FulpackVersion,
			"Result of archive integrity verification", fulpack.ValidationResult.CheckInvariants),
		Define(KindExtractResult, CatalogFulpack, fulpack.FulpackVersion,
			"Result of archive extraction", fulpack.ExtractResult.CheckInvariants),
		Define[fulpack.CreateOptions](KindCreateOptions, CatalogFulpack, fulpack.FulpackVersion,
			"Options for archive creation", nil),
		Define[fulpack.ExtractOptions](KindExtractOptions, CatalogFulpack, fulpack.FulpackVersion,
			"Options for archive extraction", nil),
		Define[fulpack.ScanOptions](KindScanOptions, CatalogFulpack, fulpack.FulpackVersion,
			"Options for archive scanning", nil),
		Define(KindDigest, CatalogFulhash, fulhash.FulhashVersion,
			"Digest returned by hashing helpers", fulhash.Digest.Check),
	} {
		DefaultRegistry.Register(k)
	}
}
