// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/codec"
	"github.com/fulmenhq/crucible/pkg/fulhash"
	"github.com/fulmenhq/crucible/pkg/fulpack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinKinds(t *testing.T) {
	t.Parallel()

	want := []string{
		KindArchiveEntry, KindArchiveInfo, KindArchiveManifest, KindCreateOptions,
		KindDigest, KindExtractOptions, KindExtractResult, KindScanOptions, KindValidationResult,
	}
	assert.Equal(t, want, DefaultRegistry.Names())

	for _, k := range Kinds() {
		assert.NotEmpty(t, k.Description, k.Name)
		require.NoError(t, catalog.ValidateVersion(k.Version), k.Name)
		assert.Equal(t, k.Type(), reflectElem(k.New()), k.Name)
	}

	_, err := Lookup("archive")
	var uk *UnknownKindError
	require.ErrorAs(t, err, &uk)
	assert.Equal(t, "archive", uk.Name)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(Define[fulpack.ScanOptions]("scan", "fulpack", "v1.0.0", "scan", nil))
	assert.Panics(t, func() {
		r.Register(Define[fulpack.ScanOptions]("scan", "fulpack", "v1.0.0", "scan", nil))
	})
	assert.Panics(t, func() {
		r.Register(Define[fulpack.ScanOptions]("", "fulpack", "v1.0.0", "scan", nil))
	})
}

func TestDecodeDocument(t *testing.T) {
	t.Parallel()

	doc := `{
		// produced by the scanner
		"path": "bin/tool",
		"type": "file",
		"size": 2048,
	}`
	v, err := DecodeDocument(KindArchiveEntry, []byte(doc))
	require.NoError(t, err)

	entry, ok := v.(*fulpack.ArchiveEntry)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, "bin/tool", entry.Path)
	assert.Equal(t, fulpack.EntryFile, entry.Type)
	assert.False(t, entry.Checksum.IsSet())

	_, err = DecodeDocument(KindArchiveEntry, []byte(`["bin/tool"]`))
	assert.ErrorIs(t, err, catalog.ErrShapeMismatch)

	_, err = DecodeDocument(KindArchiveEntry, []byte(`  `))
	assert.ErrorIs(t, err, codec.ErrEmptyDocument)
}

func TestKindCheck(t *testing.T) {
	t.Parallel()

	k, err := Lookup(KindArchiveManifest)
	require.NoError(t, err)

	m := fulpack.ArchiveManifest{Format: fulpack.FormatTar, EntryCount: 1}
	assert.ErrorIs(t, k.Check(m), fulpack.ErrInvariantViolation)
	assert.ErrorIs(t, k.Check(&m), fulpack.ErrInvariantViolation)
	assert.ErrorIs(t, k.Check(fulpack.ArchiveInfo{}), ErrKindMismatch)

	opts, err := Lookup(KindExtractOptions)
	require.NoError(t, err)
	assert.NoError(t, opts.Check(&fulpack.ExtractOptions{}))
}

func TestSealAndOpen(t *testing.T) {
	t.Parallel()

	d, err := fulhash.ParseDigest("crc32:0a1b2c3d")
	require.NoError(t, err)

	env, err := Seal(d)
	require.NoError(t, err)
	assert.Equal(t, CatalogFulhash, env.Catalog)
	assert.Equal(t, fulhash.FulhashVersion, env.Version)
	assert.Equal(t, KindDigest, env.Kind)

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"catalog": "fulhash",
		"version": "v1.0.0",
		"kind": "digest",
		"payload": {"algorithm": "crc32", "hex": "0a1b2c3d", "formatted": "crc32:0a1b2c3d"}
	}`, string(data))

	opened, err := Open(data)
	require.NoError(t, err)
	got, ok := opened.Payload.(*fulhash.Digest)
	require.True(t, ok, "got %T", opened.Payload)
	assert.True(t, got.Equal(d))
	assert.NoError(t, opened.Check())
}

func TestSealRejectsForeignValues(t *testing.T) {
	t.Parallel()

	_, err := Seal("not a payload")
	assert.ErrorIs(t, err, ErrKindMismatch)

	k, err := Lookup(KindScanOptions)
	require.NoError(t, err)
	_, err = SealKind(k, fulpack.CreateOptions{})
	assert.ErrorIs(t, err, ErrKindMismatch)

	var nilOpts *fulpack.ScanOptions
	_, err = SealKind(k, nilOpts)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestOpenVersionChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		wantErr error
	}{
		{name: "same", version: "v1.0.0"},
		{name: "next major", version: "v2.0.0", wantErr: ErrVersionMismatch},
		{name: "newer minor", version: "v1.1.0", wantErr: ErrVersionMismatch},
		{name: "not canonical", version: "1.0", wantErr: catalog.ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := `{"catalog":"fulpack","version":"` + tt.version + `","kind":"scan-options","payload":{}}`
			env, err := Open([]byte(doc))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &fulpack.ScanOptions{}, env.Payload)
		})
	}

	_, err := Open([]byte(`{"catalog":"fulpack","version":"v3.0.0","kind":"extract-options","payload":{}}`))
	var vm *VersionMismatchError
	require.ErrorAs(t, err, &vm)
	assert.Equal(t, "v1.0.0", vm.Want)
	assert.Equal(t, "v3.0.0", vm.Got)
}

func TestOpenRejectsBadEnvelopes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "catalog mismatch",
			doc:     `{"catalog":"fulhash","version":"v1.0.0","kind":"scan-options","payload":{}}`,
			wantErr: ErrKindMismatch,
		},
		{
			name:    "unknown kind",
			doc:     `{"catalog":"fulpack","version":"v1.0.0","kind":"tarball","payload":{}}`,
			wantErr: ErrUnknownKind,
		},
		{
			name:    "missing payload",
			doc:     `{"catalog":"fulpack","version":"v1.0.0","kind":"scan-options"}`,
			wantErr: catalog.ErrShapeMismatch,
		},
		{
			name:    "bad payload tag",
			doc:     `{"catalog":"fulpack","version":"v1.0.0","kind":"scan-options","payload":{"entry_types":["pipe"]}}`,
			wantErr: catalog.ErrUnrecognizedVariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Open([]byte(tt.doc))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Open([]byte(`{"catalog":"fulpack","version":"v1.0.0","kind":"scan-options","payload":{"entry_types":["pipe"]}}`))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "payload.entry_types"), err.Error())
}

func TestCBOREnvelope(t *testing.T) {
	t.Parallel()

	m := &fulpack.ArchiveManifest{
		Format:     fulpack.FormatZip,
		Version:    "1.0.0",
		Generated:  "2025-11-12T10:00:00Z",
		EntryCount: 1,
		Entries:    []fulpack.ArchiveEntry{{Path: "a.txt", Type: fulpack.EntryFile, Size: 3}},
	}
	env, err := Seal(m)
	require.NoError(t, err)

	data, err := codec.Marshal(env)
	require.NoError(t, err)

	opened, err := OpenCBOR(data)
	require.NoError(t, err)
	got, ok := opened.Payload.(*fulpack.ArchiveManifest)
	require.True(t, ok, "got %T", opened.Payload)
	assert.Equal(t, m.Entries[0].Path, got.Entries[0].Path)
	assert.Equal(t, fulpack.EntryFile, got.Entries[0].Type)
	assert.NoError(t, opened.Check())
}
